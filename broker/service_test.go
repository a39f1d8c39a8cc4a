package broker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traderkit/schwabauth/broker"
	"github.com/traderkit/schwabauth/client"
	"github.com/traderkit/schwabauth/config"
	"github.com/traderkit/schwabauth/db"
)

type mockExchanger struct {
	errToReturn   error
	exchangeCode  string
	refreshedWith string
}

func (m *mockExchanger) AuthorizationURL(appKey, redirectURI string) (string, error) {
	return "https://example.com/authorize?client_id=" + appKey, nil
}

func (m *mockExchanger) ExchangeCode(ctx context.Context, code, appKey, appSecret, redirectURI string) (client.TokenResponse, error) {
	m.exchangeCode = code
	if m.errToReturn != nil {
		return client.TokenResponse{}, m.errToReturn
	}
	return client.TokenResponse{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
		ExpiresIn:    1800,
	}, nil
}

func (m *mockExchanger) RefreshToken(ctx context.Context, refreshToken, appKey, appSecret string) (client.TokenResponse, error) {
	m.refreshedWith = refreshToken
	if m.errToReturn != nil {
		return client.TokenResponse{}, m.errToReturn
	}
	return client.TokenResponse{
		AccessToken:  "refreshed-access-token",
		RefreshToken: "rotated-refresh-token",
		ExpiresIn:    1800,
	}, nil
}

type mockStorer struct {
	stored       *db.Token
	upsertCalled bool
	errToReturn  error
}

func (m *mockStorer) UpsertTokenRecord(token *db.Token) error {
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.upsertCalled = true
	m.stored = token
	return nil
}

func (m *mockStorer) GetTokenRecord() (*db.Token, error) {
	return m.stored, nil
}

type mockFileWriter struct {
	saved       string
	saveCalled  bool
	errToReturn error
}

func (m *mockFileWriter) Save(token string) error {
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.saveCalled = true
	m.saved = token
	return nil
}

func testConfig() config.Config {
	return config.Config{
		AppKey:      "test-key",
		AppSecret:   "test-secret",
		AuthURL:     "https://example.com/authorize",
		TokenURL:    "https://example.com/token",
		RedirectURI: "https://127.0.0.1",
	}
}

func TestExchangeCode_PersistsTokenPair(t *testing.T) {
	exchanger := &mockExchanger{}
	storer := &mockStorer{}
	file := &mockFileWriter{}
	service := broker.NewService(testConfig(), exchanger, storer, file)

	token, err := service.ExchangeCode(context.Background(), "auth-code-123")

	require.NoError(t, err)
	assert.Equal(t, "auth-code-123", exchanger.exchangeCode)
	assert.Equal(t, "new-access-token", token.AccessToken)
	assert.Equal(t, "new-refresh-token", token.RefreshToken)
	assert.Equal(t, "new-refresh-token", file.saved)
	assert.True(t, storer.upsertCalled, "the token record should be saved")
	assert.NotEmpty(t, token.ObtainedAt)
}

func TestExchangeCode_FailureWritesNothing(t *testing.T) {
	exchanger := &mockExchanger{errToReturn: errors.New("invalid authorization code")}
	storer := &mockStorer{}
	file := &mockFileWriter{}
	service := broker.NewService(testConfig(), exchanger, storer, file)

	_, err := service.ExchangeCode(context.Background(), "bad-code")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid authorization code")
	assert.False(t, file.saveCalled, "a failed exchange must not write the token file")
	assert.False(t, storer.upsertCalled, "a failed exchange must not write the token record")
}

func TestExchangeCode_FileWriteFailure(t *testing.T) {
	exchanger := &mockExchanger{}
	storer := &mockStorer{}
	file := &mockFileWriter{errToReturn: errors.New("disk full")}
	service := broker.NewService(testConfig(), exchanger, storer, file)

	_, err := service.ExchangeCode(context.Background(), "auth-code-123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, storer.upsertCalled, "the record should not be saved when the file write fails")
}

func TestRefresh_PersistsRotatedPair(t *testing.T) {
	exchanger := &mockExchanger{}
	storer := &mockStorer{}
	file := &mockFileWriter{}
	service := broker.NewService(testConfig(), exchanger, storer, file)

	token, err := service.Refresh(context.Background(), "old-refresh-token")

	require.NoError(t, err)
	assert.Equal(t, "old-refresh-token", exchanger.refreshedWith)
	assert.Equal(t, "refreshed-access-token", token.AccessToken)
	assert.Equal(t, "rotated-refresh-token", token.RefreshToken)
	assert.Equal(t, "rotated-refresh-token", file.saved)
	assert.True(t, storer.upsertCalled)
}

func TestRefresh_FailureWritesNothing(t *testing.T) {
	exchanger := &mockExchanger{errToReturn: errors.New("refresh token expired")}
	storer := &mockStorer{}
	file := &mockFileWriter{}
	service := broker.NewService(testConfig(), exchanger, storer, file)

	_, err := service.Refresh(context.Background(), "stale-token")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token expired")
	assert.False(t, file.saveCalled)
	assert.False(t, storer.upsertCalled)
}

func TestAuthorizationURL_UsesConfiguredKey(t *testing.T) {
	service := broker.NewService(testConfig(), &mockExchanger{}, &mockStorer{}, &mockFileWriter{})

	got, err := service.AuthorizationURL()
	require.NoError(t, err)
	assert.Contains(t, got, "client_id=test-key")
}

func TestExtractAuthCode(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "code with session parameter",
			url:  "https://127.0.0.1/?code=LONG_CODE_HERE&session=abc",
			want: "LONG_CODE_HERE",
		},
		{
			name: "url-encoded code is decoded",
			url:  "https://127.0.0.1/?code=C0.abc%40def",
			want: "C0.abc@def",
		},
		{
			name:    "no code parameter",
			url:     "https://127.0.0.1/?session=abc",
			wantErr: true,
		},
		{
			name:    "unparseable url",
			url:     "://not-a-url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := broker.ExtractAuthCode(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
