// Package tokenfile persists the current refresh token to a plaintext file.
// The file holds the raw token string with no metadata and is overwritten on
// every successful exchange or refresh. Concurrent runs may race on it; there
// is exactly one expected writer per process.
package tokenfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/traderkit/schwabauth/pkg/clierr"
)

// Store reads and writes the refresh-token file at a fixed path.
type Store struct {
	Path string
}

// NewStore creates a Store for the given path.
func NewStore(path string) *Store { return &Store{Path: path} }

// Save overwrites the file with the raw token string.
func (s *Store) Save(token string) error {
	if token == "" {
		return clierr.New(clierr.Validation, "refresh token cannot be empty", nil)
	}
	if err := os.WriteFile(s.Path, []byte(token), 0o600); err != nil {
		log.Error().Err(err).Str("path", s.Path).Msg("Failed to write refresh token file")
		return clierr.New(clierr.IO, fmt.Sprintf("failed to write refresh token to %s", s.Path), err)
	}
	log.Info().Str("path", s.Path).Msg("Refresh token saved")
	return nil
}

// Load reads the token back, trimming surrounding whitespace.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", clierr.New(clierr.IO, fmt.Sprintf("failed to read refresh token from %s", s.Path), err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", clierr.New(clierr.IO, fmt.Sprintf("refresh token file %s is empty", s.Path), nil)
	}
	return token, nil
}
