// internal/workers/partner/track-affiliate-click/handler_test.go
package trackaffiliateclick

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"steadyone-workers/internal/common/config"
	"steadyone-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func testPartners() map[string]config.Partner {
	return map[string]config.Partner{
		"storage": {
			Kind:    "storage",
			Name:    "BoxAway Storage",
			BaseURL: "https://boxaway.example.com/offer",
			RefCode: "steady-42",
		},
		"guarantor": {
			Kind:    "guarantor",
			Name:    "LeaseShield",
			BaseURL: "https://leaseshield.example.com/apply?plan=basic",
			RefCode: "steady-7",
		},
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestHandler_Execute_TracksClickAndBuildsRedirect(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO partner_clicks").
		WithArgs(sqlmock.AnyArg(), "sess-1", "storage", "lst-9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, testPartners(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Partner:   "storage",
		ListingID: "lst-9",
	})

	require.NoError(t, err)
	assert.True(t, output.Tracked)
	assert.NotEmpty(t, output.ClickID)
	assert.Equal(t, "BoxAway Storage", output.PartnerName)
	assert.Equal(t, "https://boxaway.example.com/offer?ref=steady-42&sid=sess-1", output.RedirectURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_PreservesExistingQueryParams(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO partner_clicks").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, testPartners(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-2",
		Partner:   "guarantor",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://leaseshield.example.com/apply?plan=basic&ref=steady-7&sid=sess-2", output.RedirectURL)
}

func TestHandler_Execute_UnknownPartner(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, testPartners(), nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-3",
		Partner:   "movers",
	})

	assert.ErrorIs(t, err, ErrPartnerUnknown)
}

func TestHandler_Execute_WriteFailureStillReturnsRedirect(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO partner_clicks").
		WillReturnError(assert.AnError)

	handler := NewHandler(createTestConfig(), db, testPartners(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-4",
		Partner:   "storage",
	})

	require.NoError(t, err)
	assert.False(t, output.Tracked)
	assert.Empty(t, output.ClickID)
	assert.Contains(t, output.RedirectURL, "ref=steady-42")
}

func TestHandler_Execute_RequiresSessionAndPartner(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, testPartners(), nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Partner: "storage"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = handler.Execute(context.Background(), &Input{SessionID: "sess-5"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHandler_Execute_MalformedPartnerBaseURL(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	partners := testPartners()
	partners["broken"] = config.Partner{
		Kind:    "storage",
		Name:    "Broken Partner",
		BaseURL: "not a url",
		RefCode: "steady-0",
	}

	handler := NewHandler(createTestConfig(), db, partners, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-4",
		Partner:   "broken",
	})

	assert.ErrorIs(t, err, ErrPartnerUnknown)
	assert.ErrorContains(t, err, "malformed base_url")
}
