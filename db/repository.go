package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository defines decoupled operations for token persistence.
type TokenRepository interface {
	Get(ctx context.Context) (*Token, error)
	Upsert(ctx context.Context, token *Token) error
}

// CredentialsRepository defines decoupled operations for stored app credentials.
type CredentialsRepository interface {
	Get(ctx context.Context) (*Credentials, error)
	Upsert(ctx context.Context, creds *Credentials) error
}

// gormTokenRepo is a GORM-backed implementation of TokenRepository.
// Use constructor NewTokenRepository to obtain an instance.
type gormTokenRepo struct{ db *gorm.DB }

// gormCredentialsRepo is a GORM-backed implementation of CredentialsRepository.
// Use constructor NewCredentialsRepository to obtain an instance.
type gormCredentialsRepo struct{ db *gorm.DB }

// NewTokenRepository creates a TokenRepository. Accepts *gorm.DB to avoid global access.
func NewTokenRepository(db *gorm.DB) TokenRepository { return &gormTokenRepo{db: db} }

// NewCredentialsRepository creates a CredentialsRepository. Accepts *gorm.DB to avoid global access.
func NewCredentialsRepository(db *gorm.DB) CredentialsRepository {
	return &gormCredentialsRepo{db: db}
}

func (r *gormTokenRepo) Get(ctx context.Context) (*Token, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var token Token
	err := r.db.WithContext(ctx).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormTokenRepo) Upsert(ctx context.Context, token *Token) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	token.ID = 1
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "obtained_at", "expires_at"}),
	}).Create(token).Error
}

func (r *gormCredentialsRepo) Get(ctx context.Context) (*Credentials, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var creds Credentials
	err := r.db.WithContext(ctx).First(&creds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

func (r *gormCredentialsRepo) Upsert(ctx context.Context, creds *Credentials) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(creds).Error
}
