// Package broker drives the three-step OAuth authorization-code flow:
// build the authorization URL, exchange the code the user brings back for a
// token pair, and persist the refresh token. Every run derives a fresh pair;
// there is no staleness check and no retry. A failed step is terminal for
// the run and the remediation is to run the flow again.
package broker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/traderkit/schwabauth/config"
	"github.com/traderkit/schwabauth/db"
)

// Service orchestrates the token flow using its dependencies.
type Service struct {
	Config    config.Config
	Exchanger TokenExchanger
	Storer    TokenStorer
	File      RefreshTokenWriter
}

// NewService is the constructor for the broker service.
func NewService(cfg config.Config, exchanger TokenExchanger, storer TokenStorer, file RefreshTokenWriter) *Service {
	return &Service{
		Config:    cfg,
		Exchanger: exchanger,
		Storer:    storer,
		File:      file,
	}
}

// AuthorizationURL builds the URL the user must open to authorize the app.
func (s *Service) AuthorizationURL() (string, error) {
	return s.Exchanger.AuthorizationURL(s.Config.AppKey, s.Config.RedirectURI)
}

// ExchangeCode exchanges an authorization code for a token pair and persists
// it. Nothing is written when the exchange fails.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*db.Token, error) {
	resp, err := s.Exchanger.ExchangeCode(ctx, code, s.Config.AppKey, s.Config.AppSecret, s.Config.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return s.persist(resp.AccessToken, resp.RefreshToken, resp.ExpiresIn)
}

// Refresh obtains a fresh token pair from a refresh token and persists it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*db.Token, error) {
	resp, err := s.Exchanger.RefreshToken(ctx, refreshToken, s.Config.AppKey, s.Config.AppSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}
	return s.persist(resp.AccessToken, resp.RefreshToken, resp.ExpiresIn)
}

// persist writes the refresh token file first, then the token record.
func (s *Service) persist(accessToken, refreshToken string, expiresIn int64) (*db.Token, error) {
	if err := s.File.Save(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	now := time.Now()
	token := &db.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ObtainedAt:   now.Format(time.RFC3339),
		ExpiresAt:    now.Add(time.Duration(expiresIn) * time.Second).Format(time.RFC3339),
	}
	if err := s.Storer.UpsertTokenRecord(token); err != nil {
		return nil, fmt.Errorf("failed to save token record: %w", err)
	}

	log.Info().Msg("Token pair obtained and saved successfully.")
	return token, nil
}

// ExtractAuthCode extracts the authorization code from a pasted redirect URL.
// The code comes back URL-decoded; the provider appends other parameters
// (session etc.) which are ignored.
func ExtractAuthCode(redirectURL string) (string, error) {
	parsedURL, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect URL: %w", err)
	}

	code := parsedURL.Query().Get("code")
	if code == "" {
		return "", errors.New("authorization code not found in URL")
	}

	return code, nil
}
