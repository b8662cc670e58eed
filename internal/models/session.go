// internal/models/session.go
package models

import "time"

// SessionState is the explicit per-session value object the selector
// consumes. It is always passed in by the caller; nothing in the engine
// reaches into ambient storage for it.
type SessionState struct {
	SessionID    string        `json:"sessionId"`
	Criteria     *UserCriteria `json:"criteria,omitempty"`
	SeenIDs      []string      `json:"seenIds,omitempty"`
	LastDecision *Decision     `json:"lastDecision,omitempty"`
}

// DecisionOutcome is the user's binary verdict on a shown listing.
type DecisionOutcome string

const (
	OutcomeApply DecisionOutcome = "apply"
	OutcomeWait  DecisionOutcome = "wait"
)

// Valid reports whether the outcome is one of the two accepted verdicts.
func (o DecisionOutcome) Valid() bool {
	return o == OutcomeApply || o == OutcomeWait
}

// Decision is one append-only row in the decision log. Rows are write-once
// and never mutated by the engine.
type Decision struct {
	ID        string          `json:"id" db:"id"`
	SessionID string          `json:"sessionId" db:"session_id"`
	ListingID string          `json:"listingId" db:"listing_id"`
	Outcome   DecisionOutcome `json:"outcome" db:"outcome"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// SelectionState is where a session sits in the selection flow. Exhausted
// and NoMatches are terminal until an explicit restart.
type SelectionState string

const (
	SelectionShowing   SelectionState = "showing"
	SelectionExhausted SelectionState = "exhausted"
	SelectionNoMatches SelectionState = "no_matches"
)
