// internal/workers/listing/search-listings/handler_test.go
package searchlistings

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"steadyone-workers/internal/common/errors"
	"steadyone-workers/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		Index:   "listings",
		Timeout: 30 * time.Second,
	}
}

// stubTransport serves a canned search response so no cluster is needed.
type stubTransport struct {
	status int
	body   string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}, "X-Elastic-Product": []string{"Elasticsearch"}},
	}, nil
}

func stubClient(t *testing.T, status int, body string) *elasticsearch.Client {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://stub:9200"},
		Transport: &stubTransport{status: status, body: body},
	})
	require.NoError(t, err)
	return client
}

const searchResponse = `{
	"took": 4,
	"hits": {
		"total": {"value": 2},
		"max_score": 1.7,
		"hits": [
			{"_source": {"id": "lst-1", "neighborhood": "Park Slope", "price": 2500}},
			{"_source": {"id": "lst-2", "neighborhood": "Prospect Heights", "price": 2800}}
		]
	}
}`

func TestHandler_Execute_ReturnsHits(t *testing.T) {
	handler := NewHandler(createTestConfig(), stubClient(t, 200, searchResponse), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Keywords:  "park slope",
		BudgetMax: 3000,
	})

	require.NoError(t, err)
	assert.EqualValues(t, 2, output.TotalHits)
	assert.InDelta(t, 1.7, output.MaxScore, 0.001)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "lst-1", output.Data[0]["id"])
}

func TestHandler_Execute_EmptyResult(t *testing.T) {
	empty := `{"took": 1, "hits": {"total": {"value": 0}, "max_score": null, "hits": []}}`
	handler := NewHandler(createTestConfig(), stubClient(t, 200, empty), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Keywords: "nothing matches"})

	require.NoError(t, err)
	assert.EqualValues(t, 0, output.TotalHits)
	assert.Empty(t, output.Data)
}

func TestHandler_Execute_SearchError(t *testing.T) {
	handler := NewHandler(createTestConfig(), stubClient(t, 500, `{"error": "shard failure"}`), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Keywords: "anything"})

	require.Error(t, err)
	assert.Nil(t, output)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_Timeout(t *testing.T) {
	handler := NewHandler(createTestConfig(), stubClient(t, 200, searchResponse), logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	output, err := handler.Execute(ctx, &Input{Keywords: "anything"})

	require.Error(t, err)
	assert.Nil(t, output)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchTimeout, stdErr.Code)
}
