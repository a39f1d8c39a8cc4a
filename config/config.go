package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/traderkit/schwabauth/pkg/clierr"
	"github.com/traderkit/schwabauth/pkg/validation"
)

// Provider endpoint and persistence defaults. The redirect URI is fixed:
// it must match the one registered with the Schwab developer application.
const (
	DefaultAuthURL     = "https://api.schwabapi.com/v1/oauth/authorize"
	DefaultTokenURL    = "https://api.schwabapi.com/v1/oauth/token"
	DefaultRedirectURI = "https://127.0.0.1"
	DefaultTokenFile   = "schwab_refresh_token.txt"
)

// Config holds everything a run needs: the client credentials, the fixed
// provider endpoints, and the token file path. It is built once at startup
// and passed around explicitly rather than read from the environment ad hoc.
type Config struct {
	AppKey      string `env:"SCHWAB_APP_KEY"`
	AppSecret   string `env:"SCHWAB_APP_SECRET"`
	AuthURL     string `env:"SCHWAB_AUTH_URL" envDefault:"https://api.schwabapi.com/v1/oauth/authorize"`
	TokenURL    string `env:"SCHWAB_TOKEN_URL" envDefault:"https://api.schwabapi.com/v1/oauth/token"`
	RedirectURI string `env:"SCHWAB_REDIRECT_URI" envDefault:"https://127.0.0.1"`
	TokenFile   string `env:"SCHWAB_TOKEN_FILE" envDefault:"schwab_refresh_token.txt"`
}

// Load reads the configuration from the environment. Credentials may still
// be empty at this point; callers can merge stored credentials before
// calling Validate.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, clierr.New(clierr.Config, "failed to parse environment configuration", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to talk to the
// provider. It must pass before any network call is attempted.
func (c Config) Validate() error {
	if err := validation.ValidateCredentials(c.AppKey, c.AppSecret); err != nil {
		return clierr.New(clierr.Config,
			"missing credentials: set SCHWAB_APP_KEY and SCHWAB_APP_SECRET or run 'schwabauth init'", err)
	}
	if err := validation.ValidateRedirectURI(c.RedirectURI); err != nil {
		return clierr.New(clierr.Config, fmt.Sprintf("invalid redirect URI: %v", err), err)
	}
	if err := validation.ValidateNonEmptyString("auth URL", c.AuthURL); err != nil {
		return clierr.New(clierr.Config, "auth URL cannot be empty", err)
	}
	if err := validation.ValidateNonEmptyString("token URL", c.TokenURL); err != nil {
		return clierr.New(clierr.Config, "token URL cannot be empty", err)
	}
	return nil
}
