// internal/workers/infrastructure/validate-subscription/models.go
package validatesubscription

type Input struct {
	UserID string `json:"userId"`
}

// Output tells the process which tier the session runs under and which
// features that tier unlocks.
type Output struct {
	IsValid      bool     `json:"isValid"`
	Tier         string   `json:"tier"`
	DailyLimit   int      `json:"dailyLimit"`
	Entitlements []string `json:"entitlements,omitempty"`
}

// Subscription is a user subscription row, also the redis cache shape.
type Subscription struct {
	UserID    string `json:"userId"`
	Tier      string `json:"tier"`
	ExpiresAt string `json:"expiresAt"`
	IsValid   bool   `json:"isValid"`
}
