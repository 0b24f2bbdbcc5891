package wallet

// Profile is the account owner's profile.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Avatar  string `json:"avatar,omitempty"` // base64 image
}

// Settings are the account preferences the ledger depends on.
type Settings struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

// DefaultSettings returns the settings of a new account.
func DefaultSettings() Settings { return Settings{NotificationsEnabled: true} }
