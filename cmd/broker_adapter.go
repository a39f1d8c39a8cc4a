package cmd

import (
	"context"

	"github.com/traderkit/schwabauth/broker"
	"github.com/traderkit/schwabauth/client"
	"github.com/traderkit/schwabauth/config"
	"github.com/traderkit/schwabauth/db"
	"github.com/traderkit/schwabauth/tokenfile"
)

// tokenRepoStorer adapts a TokenRepository to the broker.TokenStorer interface.
type tokenRepoStorer struct{ repo db.TokenRepository }

func (s *tokenRepoStorer) GetTokenRecord() (*db.Token, error) {
	return s.repo.Get(context.Background())
}

func (s *tokenRepoStorer) UpsertTokenRecord(token *db.Token) error {
	return s.repo.Upsert(context.Background(), token)
}

// resolveConfig loads the environment configuration, falls back to stored
// credentials for any missing half, and validates the result. Validation
// happens before any network call.
func resolveConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if cfg.AppKey == "" || cfg.AppSecret == "" {
		creds, err := db.NewCredentialsRepository(db.GetDB()).Get(context.Background())
		if err == nil && creds != nil {
			if cfg.AppKey == "" {
				cfg.AppKey = creds.AppKey
			}
			if cfg.AppSecret == "" {
				cfg.AppSecret = creds.AppSecret
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newBrokerService wires a broker.Service from the resolved configuration.
func newBrokerService(cfg config.Config) *broker.Service {
	return broker.NewService(
		cfg,
		client.NewSchwabClient(cfg.AuthURL, cfg.TokenURL),
		&tokenRepoStorer{repo: db.NewTokenRepository(db.GetDB())},
		tokenfile.NewStore(cfg.TokenFile),
	)
}
