package queries

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrMissingIndex = errors.New("index name is required")

// ListingQuery describes one full-text search over the listings index.
type ListingQuery struct {
	Index      string
	Keywords   string
	Boroughs   []string
	BudgetMax  int
	Bedrooms   string
	PetsNeeded bool
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery assembles the search request. Free text scores against
// neighborhood and description; criteria become hard filter clauses.
// Only Active listings are ever searchable.
func BuildQuery(lq ListingQuery) (*esapi.SearchRequest, error) {
	if lq.Index == "" {
		return nil, ErrMissingIndex
	}

	mustClauses := []interface{}{}
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": "Active"},
		},
	}

	if lq.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  lq.Keywords,
				"fields": []string{"neighborhood^3", "description^2", "borough"},
				"type":   "best_fields",
			},
		})
	}

	if len(lq.Boroughs) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"borough": lq.Boroughs},
		})
	}

	if lq.BudgetMax > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"price": map[string]interface{}{"lte": lq.BudgetMax},
			},
		})
	}

	switch lq.Bedrooms {
	case "":
		// no bedroom filter
	case "3+":
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"bedrooms": map[string]interface{}{"gte": 3},
			},
		})
	default:
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"bedrooms": lq.Bedrooms},
		})
	}

	if lq.PetsNeeded {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"pets_allowed": true},
		})
	}

	boolQuery := map[string]interface{}{
		"filter": filterClauses,
	}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{lq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &lq.Pagination.From,
		Size:  &lq.Pagination.Size,
	}

	return &req, nil
}
