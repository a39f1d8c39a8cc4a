package db

// Credentials holds the Schwab developer application credentials saved by
// 'schwabauth init'. Environment variables take precedence over this row.
type Credentials struct {
	AppKey    string `gorm:"primaryKey" json:"app_key"`
	AppSecret string `json:"app_secret"`
}
