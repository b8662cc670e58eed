// internal/workers/listing/score-listing/handler_test.go
package scorelisting

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/validation"
	"steadyone-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  10 * time.Second,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupMiniRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func boolPtr(b bool) *bool { return &b }

func createTestListing() *models.Listing {
	return &models.Listing{
		ID:           "lst-100",
		Price:        2500,
		Bedrooms:     1,
		Bathrooms:    1,
		Borough:      "Brooklyn",
		Neighborhood: "Park Slope",
		PetsAllowed:  boolPtr(true),
		Description:  "Sunny one bedroom close to Prospect Park with dishwasher.",
		ImageURL:     "https://img.example.com/lst-100.jpg",
		ApplyURL:     "https://apply.example.com/lst-100",
		Amenities:    []string{"dishwasher", "laundry"},
		Status:       models.ListingStatusActive,
	}
}

func createTestCriteria() *models.UserCriteria {
	return &models.UserCriteria{
		Boroughs:  []string{"Brooklyn"},
		BudgetMax: 3000,
		Bedrooms:  models.BedroomsOne,
		Pets:      models.PetsCats,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineListingAndCriteria(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	input := &Input{
		SessionID: "sess-1",
		Listing:   createTestListing(),
		Criteria:  createTestCriteria(),
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "lst-100", output.ListingID)
	// 40 budget + 20 bedrooms + 20 borough + 10 pets = 90
	assert.Equal(t, 90, output.Analysis.Score)
	assert.Equal(t, models.BadgeActNow, output.Analysis.Badge)
}

func TestHandler_Execute_FetchListingFromDB(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	amenities, _ := json.Marshal([]string{"dishwasher"})
	mock.ExpectQuery("SELECT id, price, bedrooms").
		WithArgs("lst-200").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "price", "bedrooms", "bathrooms", "borough", "neighborhood",
			"pets_allowed", "description", "image_url", "apply_url", "amenities", "status",
		}).AddRow("lst-200", 2500, 1, 1.0, "Brooklyn", "Park Slope",
			true, "Sunny one bedroom close to Prospect Park.", "https://img.example.com/1.jpg",
			"https://apply.example.com/1", amenities, "Active"))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	input := &Input{
		SessionID: "sess-1",
		ListingID: "lst-200",
		Criteria:  createTestCriteria(),
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "lst-200", output.ListingID)
	assert.Equal(t, 90, output.Analysis.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ListingNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	mock.ExpectQuery("SELECT id, price, bedrooms").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	input := &Input{
		SessionID: "sess-1",
		ListingID: "missing",
		Criteria:  createTestCriteria(),
	}

	output, err := handler.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.Nil(t, output)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InactiveListingRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	amenities, _ := json.Marshal([]string{})
	mock.ExpectQuery("SELECT id, price, bedrooms").
		WithArgs("lst-rented").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "price", "bedrooms", "bathrooms", "borough", "neighborhood",
			"pets_allowed", "description", "image_url", "apply_url", "amenities", "status",
		}).AddRow("lst-rented", 2500, 1, 1.0, "Brooklyn", "Park Slope",
			true, "Gone already.", "https://img.example.com/1.jpg", "", amenities, "Rented"))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	input := &Input{
		SessionID: "sess-1",
		ListingID: "lst-rented",
		Criteria:  createTestCriteria(),
	}

	_, err := handler.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrListingNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InlineInactiveListingRejected(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	listing := createTestListing()
	listing.Status = models.ListingStatusRented

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Listing:   listing,
		Criteria:  createTestCriteria(),
	})

	assert.ErrorIs(t, err, ErrListingNotActive)
	assert.Nil(t, output)
}

func TestHandler_Execute_CriteriaFromCache(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, mr := setupMiniRedis(t)

	cached, _ := json.Marshal(createTestCriteria())
	mr.Set("steady:criteria:sess-9", string(cached))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	input := &Input{
		SessionID: "sess-9",
		Listing:   createTestListing(),
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 90, output.Analysis.Score)
}

func TestHandler_Execute_CriteriaMissing(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	input := &Input{
		SessionID: "sess-unknown",
		Listing:   createTestListing(),
	}

	output, err := handler.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrCriteriaMissing)
	assert.Nil(t, output)
}

// ==========================
// Error Code Mapping Tests
// ==========================

func TestErrorCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		expected string
	}{
		{
			name: "zero price listing",
			input: &Input{
				SessionID: "sess-1",
				Listing:   &models.Listing{ID: "bad", Price: 0},
				Criteria:  createTestCriteria(),
			},
			expected: "LISTING_INVALID",
		},
		{
			name: "zero budget criteria",
			input: &Input{
				SessionID: "sess-1",
				Listing:   createTestListing(),
				Criteria:  &models.UserCriteria{BudgetMax: 0},
			},
			expected: "CRITERIA_INVALID",
		},
	}

	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)
	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), tt.input)
			assert.Error(t, err)
			assert.Equal(t, tt.expected, errorCodeFor(err))
		})
	}
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	db, _, err := sqlmock.New()
	if err != nil {
		b.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(&testing.T{}))
	input := &Input{
		SessionID: "sess-bench",
		Listing:   createTestListing(),
		Criteria:  createTestCriteria(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func TestGetInputSchema(t *testing.T) {
	schema := GetInputSchema()

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"sessionId"}, schema.Required)
	assert.Contains(t, schema.Properties, "listingId")
	assert.Contains(t, schema.Properties, "listing")
	assert.Contains(t, schema.Properties, "criteria")
	assert.True(t, schema.AdditionalProperties)

	result := validation.ValidateInput(map[string]interface{}{
		"sessionId": "sess-1",
		"listingId": "lst-1",
	}, schema)
	assert.True(t, result.Valid)

	result = validation.ValidateInput(map[string]interface{}{
		"listingId": "lst-1",
	}, schema)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("sessionId"))
}
