package db

// Token is the last token pair obtained from the provider. Exactly one row
// exists (ID 1); every successful exchange or refresh overwrites it. The
// record is informational: no flow reads it to decide whether a token is
// still usable, a run always derives a fresh pair.
type Token struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ObtainedAt   string `json:"obtained_at,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}
