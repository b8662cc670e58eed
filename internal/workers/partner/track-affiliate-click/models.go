// internal/workers/partner/track-affiliate-click/models.go
package trackaffiliateclick

type Input struct {
	SessionID string `json:"sessionId"`
	Partner   string `json:"partner"`
	ListingID string `json:"listingId,omitempty"`
}

type Output struct {
	ClickID     string `json:"clickId,omitempty"`
	RedirectURL string `json:"redirectUrl"`
	PartnerName string `json:"partnerName"`
	Tracked     bool   `json:"tracked"`
}
