// internal/workers/listing/select-next-listing/models.go
package selectnextlisting

import "steadyone-workers/internal/models"

type Input struct {
	SessionID string               `json:"sessionId"`
	Criteria  *models.UserCriteria `json:"criteria"`
	// OffsetSeed pins the starting offset for deterministic selection.
	// When absent a pseudo-random offset is drawn.
	OffsetSeed *int `json:"offsetSeed,omitempty"`
}

type Output struct {
	State         models.SelectionState `json:"state"`
	Listing       *models.Listing       `json:"listing,omitempty"`
	EligibleCount int                   `json:"eligibleCount"`
	SeenCount     int                   `json:"seenCount"`
}
