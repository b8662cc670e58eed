// internal/workers/infrastructure/parse-questionnaire/models.go
package parsequestionnaire

import "steadyone-workers/internal/models"

// Answers carries the raw questionnaire form values before validation.
type Answers struct {
	Boroughs  []string `json:"boroughs,omitempty"`
	BudgetMax int      `json:"budgetMax"`
	Bedrooms  string   `json:"bedrooms"`
	Bathrooms string   `json:"bathrooms,omitempty"`
	Pets      string   `json:"pets"`
	Amenities []string `json:"amenities,omitempty"`
}

type Input struct {
	SessionID string  `json:"sessionId"`
	Answers   Answers `json:"answers"`
}

type Output struct {
	Criteria *models.UserCriteria `json:"criteria"`
	Cached   bool                 `json:"cached"`
}
