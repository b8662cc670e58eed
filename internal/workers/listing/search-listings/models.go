// internal/workers/listing/search-listings/models.go
package searchlistings

type Input struct {
	Keywords   string     `json:"keywords"`
	Boroughs   []string   `json:"boroughs,omitempty"`
	BudgetMax  int        `json:"budgetMax,omitempty"`
	Bedrooms   string     `json:"bedrooms,omitempty"`
	PetsNeeded bool       `json:"petsNeeded,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
