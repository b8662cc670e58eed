// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"steadyone-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchClient wraps the Elasticsearch client used by the
// listing full-text search worker.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client.
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection.
func (c *ElasticsearchClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(
		c.Client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

// listingsMapping matches the fields the search worker queries and
// filters on. Text fields carry the listing prose; the rest are exact
// filters.
const listingsMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "description":  {"type": "text"},
      "amenities":    {"type": "text"},
      "borough":      {"type": "keyword"},
      "neighborhood": {"type": "keyword"},
      "price":        {"type": "integer"},
      "bedrooms":     {"type": "integer"},
      "bathrooms":    {"type": "float"},
      "pets_allowed": {"type": "boolean"},
      "status":       {"type": "keyword"}
    }
  }
}`

// EnsureListingsIndex creates the listings search index with its mapping
// when it does not exist yet. Existing indices are left untouched.
func (c *ElasticsearchClient) EnsureListingsIndex(ctx context.Context, index string) error {
	res, err := c.Client.Indices.Exists(
		[]string{index},
		c.Client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check listings index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		if res.IsError() {
			return fmt.Errorf("check listings index: %s", res.Status())
		}
		return nil
	}

	createRes, err := c.Client.Indices.Create(
		index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(listingsMapping)),
	)
	if err != nil {
		return fmt.Errorf("create listings index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("create listings index: %s", createRes.Status())
	}

	return nil
}

// Info returns cluster information.
func (c *ElasticsearchClient) Info(ctx context.Context) error {
	res, err := c.Client.Info(
		c.Client.Info.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch info error: %s", res.Status())
	}

	return nil
}
