// internal/models/feedback.go
package models

import "time"

// FeedbackReason is the coarse category a user picks on the exit flow
// after exhausting the pool.
type FeedbackReason string

const (
	FeedbackReasonPrice    FeedbackReason = "price"
	FeedbackReasonLocation FeedbackReason = "location"
	FeedbackReasonStyle    FeedbackReason = "style"
)

// Valid reports whether the reason is a known category.
func (r FeedbackReason) Valid() bool {
	return r == FeedbackReasonPrice || r == FeedbackReasonLocation || r == FeedbackReasonStyle
}

// Feedback is one exit-flow entry recorded when a session runs out of
// listings before applying.
type Feedback struct {
	ID        string         `json:"id" db:"id"`
	SessionID string         `json:"sessionId" db:"session_id"`
	Reason    FeedbackReason `json:"reason" db:"reason"`
	Comment   string         `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}
