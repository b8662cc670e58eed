// internal/workers/partner/track-affiliate-click/handler.go
package trackaffiliateclick

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"steadyone-workers/internal/common/config"
	commonhttp "steadyone-workers/internal/common/http"
	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"
	"steadyone-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "track-affiliate-click"
)

var (
	ErrPartnerUnknown = errors.New("partner is not configured")
	ErrInvalidRequest = errors.New("affiliate click request is invalid")
)

type Handler struct {
	config   *Config
	db       *sql.DB
	partners map[string]config.Partner
	http     *commonhttp.Client
	logger   logger.Logger
}

func NewHandler(cfg *Config, db *sql.DB, partners map[string]config.Partner, httpClient *commonhttp.Client, log logger.Logger) *Handler {
	return &Handler{
		config:   cfg,
		db:       db,
		partners: partners,
		http:     httpClient,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "CLICK_TRACK_FAILED"
		switch {
		case errors.Is(err, ErrPartnerUnknown):
			code = "PARTNER_UNKNOWN"
		case errors.Is(err, ErrInvalidRequest):
			code = "CLICK_INVALID"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" || input.Partner == "" {
		return nil, fmt.Errorf("%w: sessionId and partner are required", ErrInvalidRequest)
	}

	partner, ok := h.partners[input.Partner]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartnerUnknown, input.Partner)
	}

	if !validation.ValidateURL(partner.BaseURL) {
		return nil, fmt.Errorf("%w: partner %q has a malformed base_url", ErrPartnerUnknown, input.Partner)
	}

	redirect, err := buildRedirectURL(partner, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: partner %q has a malformed base_url", ErrPartnerUnknown, input.Partner)
	}

	if h.config.ProbeDestinations && h.http != nil {
		if status, probeErr := h.http.ProbeURL(ctx, partner.BaseURL); probeErr != nil || status >= 500 {
			h.logger.Warn("partner destination probe failed", map[string]interface{}{
				"partner": input.Partner,
				"status":  status,
				"error":   probeErr,
			})
		}
	}

	output := &Output{
		RedirectURL: redirect,
		PartnerName: partner.Name,
	}

	// Click attribution is best effort. A dead analytics table must not
	// cost the user their referral link.
	clickID := uuid.New().String()
	insert := `INSERT INTO partner_clicks (id, session_id, partner, listing_id, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := h.db.ExecContext(ctx, insert, clickID, input.SessionID, input.Partner, input.ListingID, time.Now().UTC()); err != nil {
		h.logger.Warn("failed to record partner click", map[string]interface{}{
			"partner":   input.Partner,
			"sessionId": input.SessionID,
			"error":     err.Error(),
		})
		return output, nil
	}

	output.ClickID = clickID
	output.Tracked = true
	return output, nil
}

// buildRedirectURL appends the referral code to the partner's base URL,
// preserving any query parameters the base already carries.
func buildRedirectURL(partner config.Partner, sessionID string) (string, error) {
	u, err := url.Parse(partner.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("ref", partner.RefCode)
	q.Set("sid", sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
