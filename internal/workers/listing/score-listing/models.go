// internal/workers/listing/score-listing/models.go
package scorelisting

import "steadyone-workers/internal/models"

type Input struct {
	SessionID string               `json:"sessionId"`
	ListingID string               `json:"listingId,omitempty"`
	Listing   *models.Listing      `json:"listing,omitempty"`
	Criteria  *models.UserCriteria `json:"criteria,omitempty"`
}

type Output struct {
	ListingID string                `json:"listingId"`
	Analysis  *models.MatchAnalysis `json:"analysis"`
}
