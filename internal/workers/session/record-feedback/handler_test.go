// internal/workers/session/record-feedback/handler_test.go
package recordfeedback

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, MaxCommentLength: 2000}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func TestHandler_Execute_RecordsFeedback(t *testing.T) {
	tests := []struct {
		name   string
		reason models.FeedbackReason
	}{
		{"price", models.FeedbackReasonPrice},
		{"location", models.FeedbackReasonLocation},
		{"style", models.FeedbackReasonStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			defer db.Close()

			mock.ExpectExec("INSERT INTO feedback").
				WithArgs(sqlmock.AnyArg(), "sess-1", string(tt.reason), "everything was over budget", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{
				SessionID: "sess-1",
				Reason:    tt.reason,
				Comment:   "everything was over budget",
			})

			require.NoError(t, err)
			assert.NotEmpty(t, output.FeedbackID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_TruncatesLongComment(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	cfg := &Config{Timeout: 5 * time.Second, MaxCommentLength: 10}
	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(sqlmock.AnyArg(), "sess-1", "price", "aaaaaaaaaa", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(cfg, db, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Reason:    models.FeedbackReasonPrice,
		Comment:   strings.Repeat("a", 50),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_WriteFailureIsRetryable(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO feedback").
		WillReturnError(errors.New("connection refused"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Reason:    models.FeedbackReasonLocation,
	})

	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.Nil(t, output)
}

func TestHandler_Execute_RejectsUnknownReason(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Reason:    "vibes",
	})

	assert.ErrorIs(t, err, ErrInvalidFeedback)
}
