// internal/workers/session/record-decision/models.go
package recorddecision

import "steadyone-workers/internal/models"

type Input struct {
	SessionID string                 `json:"sessionId"`
	ListingID string                 `json:"listingId"`
	Outcome   models.DecisionOutcome `json:"outcome"`
}

// Output reports whether the append-only log write landed. Logged=false
// is a diagnostic signal, not a failure: the decision flow never blocks
// on the audit trail.
type Output struct {
	DecisionID string `json:"decisionId,omitempty"`
	Logged     bool   `json:"logged"`
}
