// internal/models/subscription.go
package models

// SubscriptionTier gates how much of the flow a user sees. Preview users
// get a single visible listing; paying tiers get the full selection loop.
type SubscriptionTier string

const (
	TierPreview    SubscriptionTier = "preview"
	TierSteady     SubscriptionTier = "steady"
	TierSteadyPlus SubscriptionTier = "steady_plus"
)

// Paid reports whether the tier unlocks the full listing loop.
func (t SubscriptionTier) Paid() bool {
	return t == TierSteady || t == TierSteadyPlus
}

// Subscription is the paywall record for a user.
type Subscription struct {
	UserID    string           `json:"userId" db:"user_id"`
	Tier      SubscriptionTier `json:"tier" db:"tier"`
	ExpiresAt string           `json:"expiresAt,omitempty" db:"expires_at"`
	IsValid   bool             `json:"isValid" db:"is_valid"`
}
