// internal/workers/session/record-decision/handler.go
package recorddecision

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-decision"
)

var ErrInvalidDecision = errors.New("decision missing session, listing or valid outcome")

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "DECISION_INVALID", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute appends one decision row. A write failure is recorded for
// diagnostics and surfaced as logged:false; it never fails the job,
// since the user's apply/wait verdict is the outcome that matters.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" || input.ListingID == "" || !input.Outcome.Valid() {
		return nil, ErrInvalidDecision
	}

	decisionID := uuid.New().String()
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO decisions (id, session_id, listing_id, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		decisionID, input.SessionID, input.ListingID, string(input.Outcome), time.Now().UTC())
	if err != nil {
		h.logger.Error("decision log write failed", map[string]interface{}{
			"sessionId": input.SessionID,
			"listingId": input.ListingID,
			"outcome":   input.Outcome,
			"error":     err,
		})
		return &Output{Logged: false}, nil
	}

	metrics.DecisionsRecorded.WithLabelValues(string(input.Outcome)).Inc()

	h.logger.Info("decision recorded", map[string]interface{}{
		"decisionId": decisionID,
		"sessionId":  input.SessionID,
		"listingId":  input.ListingID,
		"outcome":    input.Outcome,
	})

	return &Output{DecisionID: decisionID, Logged: true}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
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
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
