package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/traderkit/schwabauth/pkg/clierr"
	"github.com/traderkit/schwabauth/pkg/validation"
)

// TokenResponse is the payload returned by the provider's token endpoint for
// both the authorization-code and refresh-token grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	Error        string `json:"error_description"`
}

// SchwabClient talks to the Schwab OAuth endpoints. Endpoints are fields so
// tests can point them at a local server.
type SchwabClient struct {
	AuthURL    string
	TokenURL   string
	HTTPClient *http.Client
}

// NewSchwabClient creates a client for the given endpoints with the default
// 30-second timeout. There is no retry: a failed call is terminal for the run.
func NewSchwabClient(authURL, tokenURL string) *SchwabClient {
	return &SchwabClient{
		AuthURL:    authURL,
		TokenURL:   tokenURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthorizationURL builds the URL the user must open in a browser to start
// the authorization-code flow. Pure construction, no network.
func (c *SchwabClient) AuthorizationURL(appKey, redirectURI string) (string, error) {
	if err := validation.ValidateNonEmptyString("app key", appKey); err != nil {
		return "", clierr.New(clierr.Validation, err.Error(), err)
	}
	if err := validation.ValidateNonEmptyString("redirect URI", redirectURI); err != nil {
		return "", clierr.New(clierr.Validation, err.Error(), err)
	}

	query := url.Values{
		"client_id":     {appKey},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {"readonly"},
	}
	return c.AuthURL + "?" + query.Encode(), nil
}

// ExchangeCode exchanges an authorization code for an access/refresh token pair.
func (c *SchwabClient) ExchangeCode(ctx context.Context, code, appKey, appSecret, redirectURI string) (TokenResponse, error) {
	if err := validation.ValidateNonEmptyString("authorization code", code); err != nil {
		return TokenResponse{}, clierr.New(clierr.Validation, err.Error(), err)
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}
	log.Info().Msg("Exchanging authorization code for tokens")
	return c.postTokenForm(ctx, form, appKey, appSecret)
}

// RefreshToken obtains a fresh token pair from a refresh token.
func (c *SchwabClient) RefreshToken(ctx context.Context, refreshToken, appKey, appSecret string) (TokenResponse, error) {
	if err := validation.ValidateNonEmptyString("refresh token", refreshToken); err != nil {
		return TokenResponse{}, clierr.New(clierr.Validation, err.Error(), err)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	log.Info().Msg("Refreshing access token")
	return c.postTokenForm(ctx, form, appKey, appSecret)
}

// postTokenForm sends a form-encoded POST to the token endpoint with the
// client credentials in a Basic auth header, as the provider requires.
func (c *SchwabClient) postTokenForm(ctx context.Context, form url.Values, appKey, appSecret string) (TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Error().Err(err).Str("url", c.TokenURL).Msg("Failed to create token request")
		return TokenResponse{}, clierr.New(clierr.Internal, "failed to create token request", err)
	}
	req.Header.Set("Authorization", "Basic "+basicCredentials(appKey, appSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Debug().Str("url", c.TokenURL).Str("grant_type", form.Get("grant_type")).Msg("Sending token request")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", c.TokenURL).Msg("Token request failed")
		return TokenResponse{}, clierr.New(clierr.Auth, "token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("url", c.TokenURL).Msg("Failed to read token response body")
		return TokenResponse{}, clierr.New(clierr.Auth, "failed to read token response", err)
	}

	var result TokenResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the provider's error description when there is one.
		_ = json.Unmarshal(body, &result)
		msg := fmt.Sprintf("token request failed with status %d", resp.StatusCode)
		if result.Error != "" {
			msg = fmt.Sprintf("%s: %s", msg, result.Error)
		} else if len(body) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, string(body))
		}
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Token request returned non-OK status")
		return TokenResponse{}, clierr.New(clierr.Auth, msg, nil)
	}

	if err := json.Unmarshal(body, &result); err != nil {
		log.Error().Err(err).Str("body_preview", bodyPreview(body)).Msg("Failed to parse token response JSON")
		return TokenResponse{}, clierr.New(clierr.Auth, "failed to parse token response", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		log.Error().Str("body_preview", bodyPreview(body)).Msg("Token response is missing token fields")
		return TokenResponse{}, clierr.New(clierr.Auth, "token response is missing access_token or refresh_token", nil)
	}

	log.Info().Int64("expires_in", result.ExpiresIn).Msg("Token request successful")
	return result, nil
}

// basicCredentials encodes "key:secret" for the Authorization header.
func basicCredentials(appKey, appSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(appKey + ":" + appSecret))
}

func bodyPreview(body []byte) string {
	return string(body[:min(len(body), 200)])
}
