package queries

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, lq ListingQuery) map[string]interface{} {
	req, err := BuildQuery(lq)
	require.NoError(t, err)
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func boolClause(t *testing.T, body map[string]interface{}) map[string]interface{} {
	query, ok := body["query"].(map[string]interface{})
	require.True(t, ok)
	boolQ, ok := query["bool"].(map[string]interface{})
	require.True(t, ok)
	return boolQ
}

func TestBuildQuery_RequiresIndex(t *testing.T) {
	_, err := BuildQuery(ListingQuery{})
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestBuildQuery_AlwaysFiltersActive(t *testing.T) {
	body := decodeBody(t, ListingQuery{Index: "listings"})
	filters := boolClause(t, body)["filter"].([]interface{})

	require.NotEmpty(t, filters)
	first := filters[0].(map[string]interface{})
	assert.Equal(t, "Active", first["term"].(map[string]interface{})["status"])
}

func TestBuildQuery_KeywordsBecomeMultiMatch(t *testing.T) {
	body := decodeBody(t, ListingQuery{Index: "listings", Keywords: "sunny park slope"})
	must := boolClause(t, body)["must"].([]interface{})

	require.Len(t, must, 1)
	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "sunny park slope", mm["query"])
}

func TestBuildQuery_FilterClauses(t *testing.T) {
	tests := []struct {
		name        string
		query       ListingQuery
		wantFilters int // including the status filter
	}{
		{"no criteria", ListingQuery{Index: "listings"}, 1},
		{"budget only", ListingQuery{Index: "listings", BudgetMax: 3000}, 2},
		{"boroughs and budget", ListingQuery{Index: "listings", Boroughs: []string{"Brooklyn"}, BudgetMax: 3000}, 3},
		{"exact bedrooms", ListingQuery{Index: "listings", Bedrooms: "2"}, 2},
		{"open-ended bedrooms", ListingQuery{Index: "listings", Bedrooms: "3+"}, 2},
		{"pets needed", ListingQuery{Index: "listings", PetsNeeded: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := decodeBody(t, tt.query)
			filters := boolClause(t, body)["filter"].([]interface{})
			assert.Len(t, filters, tt.wantFilters)
		})
	}
}

func TestBuildQuery_OpenEndedBedroomsUsesRange(t *testing.T) {
	body := decodeBody(t, ListingQuery{Index: "listings", Bedrooms: "3+"})
	filters := boolClause(t, body)["filter"].([]interface{})

	rangeClause := filters[1].(map[string]interface{})["range"].(map[string]interface{})
	bedrooms := rangeClause["bedrooms"].(map[string]interface{})
	assert.EqualValues(t, 3, bedrooms["gte"])
}
