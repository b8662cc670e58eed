// internal/workers/infrastructure/parse-questionnaire/handler_test.go
package parsequestionnaire

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		CriteriaTTL: 24 * time.Hour,
	}
}

func setupMiniRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func validAnswers() Answers {
	return Answers{
		Boroughs:  []string{"Brooklyn", "Queens"},
		BudgetMax: 3200,
		Bedrooms:  "2",
		Bathrooms: "1.5",
		Pets:      "cats",
		Amenities: []string{"laundry", "dishwasher"},
	}
}

func TestHandler_Execute_ParsesAndCachesCriteria(t *testing.T) {
	rdb, mr := setupMiniRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Answers:   validAnswers(),
	})

	require.NoError(t, err)
	assert.True(t, output.Cached)
	assert.Equal(t, 3200, output.Criteria.BudgetMax)
	assert.Equal(t, models.BedroomsTwo, output.Criteria.Bedrooms)
	assert.Equal(t, models.BathroomsOneHalf, output.Criteria.Bathrooms)
	assert.Equal(t, models.PetsCats, output.Criteria.Pets)
	assert.Equal(t, []string{"Brooklyn", "Queens"}, output.Criteria.Boroughs)

	raw, err := mr.Get("steady:criteria:sess-1")
	require.NoError(t, err)
	var cached models.UserCriteria
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, *output.Criteria, cached)

	ttl := mr.TTL("steady:criteria:sess-1")
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestHandler_Execute_MinimalAnswers(t *testing.T) {
	rdb, _ := setupMiniRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-2",
		Answers: Answers{
			BudgetMax: 1800,
			Bedrooms:  "0",
			Pets:      "none",
		},
	})

	require.NoError(t, err)
	assert.Empty(t, output.Criteria.Boroughs)
	assert.Equal(t, models.BedroomsStudio, output.Criteria.Bedrooms)
	assert.False(t, output.Criteria.Pets.WantsPets())
}

func TestHandler_Execute_RejectsInvalidAnswers(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Answers)
		message string
	}{
		{
			name:    "zero budget",
			mutate:  func(a *Answers) { a.BudgetMax = 0 },
			message: "budgetMax",
		},
		{
			name:    "negative budget",
			mutate:  func(a *Answers) { a.BudgetMax = -500 },
			message: "budgetMax",
		},
		{
			name:    "unknown borough",
			mutate:  func(a *Answers) { a.Boroughs = []string{"Hoboken"} },
			message: "boroughs",
		},
		{
			name:    "bedrooms outside enum",
			mutate:  func(a *Answers) { a.Bedrooms = "4" },
			message: "bedrooms",
		},
		{
			name:    "bathrooms outside enum",
			mutate:  func(a *Answers) { a.Bathrooms = "3" },
			message: "bathrooms",
		},
		{
			name:    "unknown pet preference",
			mutate:  func(a *Answers) { a.Pets = "iguana" },
			message: "pets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb, mr := setupMiniRedis(t)
			handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

			answers := validAnswers()
			tt.mutate(&answers)

			_, err := handler.Execute(context.Background(), &Input{
				SessionID: "sess-bad",
				Answers:   answers,
			})

			assert.ErrorIs(t, err, ErrInvalidAnswers)
			assert.ErrorContains(t, err, tt.message)
			assert.False(t, mr.Exists("steady:criteria:sess-bad"))
		})
	}
}

func TestHandler_Execute_RequiresSessionID(t *testing.T) {
	rdb, _ := setupMiniRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Answers: validAnswers()})

	assert.ErrorIs(t, err, ErrInvalidAnswers)
}

func TestHandler_Execute_CacheFailureDowngradesToUncached(t *testing.T) {
	rdb, mr := setupMiniRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))
	mr.Close()

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-3",
		Answers:   validAnswers(),
	})

	require.NoError(t, err)
	assert.False(t, output.Cached)
	assert.NotNil(t, output.Criteria)
}
