// internal/workers/session/record-decision/handler_test.go
package recorddecision

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func TestHandler_Execute_RecordsDecision(t *testing.T) {
	tests := []struct {
		name    string
		outcome models.DecisionOutcome
	}{
		{"apply", models.OutcomeApply},
		{"wait", models.OutcomeWait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			defer db.Close()

			mock.ExpectExec("INSERT INTO decisions").
				WithArgs(sqlmock.AnyArg(), "sess-1", "lst-1", string(tt.outcome), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{
				SessionID: "sess-1",
				ListingID: "lst-1",
				Outcome:   tt.outcome,
			})

			require.NoError(t, err)
			assert.True(t, output.Logged)
			assert.NotEmpty(t, output.DecisionID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_WriteFailureNeverBlocks(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO decisions").
		WillReturnError(errors.New("connection refused"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		ListingID: "lst-1",
		Outcome:   models.OutcomeApply,
	})

	// The flow proceeds; only the logged flag reports the loss.
	require.NoError(t, err)
	assert.False(t, output.Logged)
	assert.Empty(t, output.DecisionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RejectsInvalidInput(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	tests := []struct {
		name  string
		input *Input
	}{
		{"missing session", &Input{ListingID: "lst-1", Outcome: models.OutcomeApply}},
		{"missing listing", &Input{SessionID: "sess-1", Outcome: models.OutcomeApply}},
		{"bad outcome", &Input{SessionID: "sess-1", ListingID: "lst-1", Outcome: "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrInvalidDecision)
			assert.Nil(t, output)
		})
	}
}
