package broker

import (
	"context"

	"github.com/traderkit/schwabauth/client"
	"github.com/traderkit/schwabauth/db"
)

// TokenExchanger defines the contract for any component that can talk to the
// provider's OAuth endpoints.
type TokenExchanger interface {
	AuthorizationURL(appKey, redirectURI string) (string, error)
	ExchangeCode(ctx context.Context, code, appKey, appSecret, redirectURI string) (client.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken, appKey, appSecret string) (client.TokenResponse, error)
}

// TokenStorer defines the contract for any component that can store the last
// obtained token record.
type TokenStorer interface {
	UpsertTokenRecord(token *db.Token) error
	GetTokenRecord() (*db.Token, error)
}

// RefreshTokenWriter defines the contract for persisting the raw refresh
// token string.
type RefreshTokenWriter interface {
	Save(token string) error
}
