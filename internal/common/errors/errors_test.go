// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_CodesAndRetryability(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"criteria invalid", NewCriteriaInvalidError("budgetMax missing"), ErrCodeCriteriaInvalid, false},
		{"listing invalid", NewListingInvalidError("lst-1", "price is zero"), ErrCodeListingInvalid, false},
		{"store unavailable", NewStoreUnavailableError(cause), ErrCodeStoreUnavailable, true},
		{"store timeout", NewStoreTimeoutError("eligibleCount"), ErrCodeStoreTimeout, true},
		{"seen set failed", NewSeenSetFailedError(cause), ErrCodeSeenSetFailed, true},
		{"search query failed", NewSearchQueryFailedError(cause), ErrCodeSearchQueryFailed, true},
		{"search timeout", NewSearchTimeoutError(), ErrCodeSearchTimeout, true},
		{"decision log failed", NewDecisionLogFailedError(cause), ErrCodeDecisionLogFailed, false},
		{"feedback failed", NewFeedbackFailedError(cause), ErrCodeFeedbackFailed, true},
		{"subscription invalid", NewSubscriptionInvalidError("user not found"), ErrCodeSubscriptionInvalid, false},
		{"subscription expired", NewSubscriptionExpiredError("expired 2026-01-01"), ErrCodeSubscriptionExpired, false},
		{"subscription check failed", NewSubscriptionCheckFailedError(cause), ErrCodeSubscriptionCheckFailed, true},
		{"notification send failed", NewNotificationSendFailedError("email", cause), ErrCodeNotificationSendFailed, true},
		{"partner unknown", NewPartnerUnknownError("boxaway"), ErrCodePartnerUnknown, false},
		{"click log failed", NewClickLogFailedError(cause), ErrCodeClickLogFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeStoreUnavailable))
	assert.Equal(t, 3, GetRetryCount(ErrCodeSeenSetFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeStoreTimeout))
	assert.Equal(t, 2, GetRetryCount(ErrCodeSearchTimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodeCriteriaInvalid))
	assert.Equal(t, 0, GetRetryCount(ErrCodePartnerUnknown))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeSearchQueryFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeListingInvalid))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewStoreUnavailableError(fmt.Errorf("dial tcp: refused"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "STORE_UNAVAILABLE", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "STORE_UNAVAILABLE", vars["errorCode"])
	assert.Equal(t, "STORE_UNAVAILABLE", vars["originalErrorCode"])
	require.Contains(t, vars, "timestamp")
}

func TestConvertToBPMNError_NonRetryableGetsZeroRetries(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewCriteriaInvalidError("pets value unknown"))

	assert.Equal(t, "CRITERIA_INVALID", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SUBSCRIPTION", GetErrorCategory(ErrCodeSubscriptionExpired))
	assert.Equal(t, "STORE", GetErrorCategory(ErrCodeSeenSetFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "AUDIT", GetErrorCategory(ErrCodeDecisionLogFailed))
	assert.Equal(t, "AUDIT", GetErrorCategory(ErrCodeClickLogFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "PARTNER", GetErrorCategory(ErrCodePartnerUnknown))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeCriteriaInvalid))
	assert.Equal(t, "OTHER", GetErrorCategory("TIMEOUT_ERROR"))
}
