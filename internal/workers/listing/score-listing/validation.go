// internal/workers/listing/score-listing/validation.go
package scorelisting

import "steadyone-workers/internal/common/validation"

// GetInputSchema describes the scoring job variables. Extra process
// variables ride along on every Zeebe job, so they are allowed through.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"sessionId"},
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:        "string",
				Description: "Browsing session the score belongs to",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(128),
			},
			"listingId": {
				Type:        "string",
				Description: "Listing to fetch from the store when no inline listing is given",
				MaxLength:   intPtr(128),
			},
			"listing": {
				Type:        "object",
				Description: "Inline listing payload, takes precedence over listingId",
			},
			"criteria": {
				Type:        "object",
				Description: "Inline criteria, falls back to the session cache when absent",
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"listingId": {
				Type:        "string",
				Description: "Listing the analysis refers to",
			},
			"analysis": {
				Type:        "object",
				Description: "Score, badge and per-dimension breakdown",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
