// internal/workers/listing/score-listing/handler.go
package scorelisting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"
	"steadyone-workers/internal/common/validation"
	"steadyone-workers/internal/match"
	"steadyone-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "score-listing"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCriteriaMissing  = errors.New("criteria not provided and not cached for session")
	ErrListingNotActive = errors.New("listing is not active")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	variables, err := job.GetVariablesAsMap()
	if err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}
	if result := validation.ValidateInput(variables, GetInputSchema()); !result.Valid {
		h.failJob(client, job, "LISTING_INVALID", fmt.Sprintf("input validation: %v", result.GetErrorMessages()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, errorCodeFor(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	listing := input.Listing
	if listing == nil {
		if input.ListingID == "" {
			return nil, fmt.Errorf("%w: no listing or listingId supplied", ErrListingNotFound)
		}
		var err error
		listing, err = h.getListing(ctx, input.ListingID)
		if err != nil {
			return nil, err
		}
	}

	if !listing.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrListingNotActive, listing.ID)
	}

	criteria := input.Criteria
	if criteria == nil {
		var err error
		criteria, err = h.getCriteria(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
	}

	analysis, err := match.Score(listing, criteria)
	if err != nil {
		return nil, err
	}

	metrics.ListingsScored.WithLabelValues(string(analysis.Badge)).Inc()

	h.logger.Info("listing scored", map[string]interface{}{
		"sessionId": input.SessionID,
		"listingId": listing.ID,
		"score":     analysis.Score,
		"badge":     analysis.Badge,
	})

	return &Output{
		ListingID: listing.ID,
		Analysis:  analysis,
	}, nil
}

func (h *Handler) getListing(ctx context.Context, listingID string) (*models.Listing, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, price, bedrooms, bathrooms, borough, neighborhood,
		       pets_allowed, description, image_url, apply_url, amenities, status
		FROM listings WHERE id = $1`, listingID)

	var listing models.Listing
	var amenities []byte
	err := row.Scan(&listing.ID, &listing.Price, &listing.Bedrooms, &listing.Bathrooms,
		&listing.Borough, &listing.Neighborhood, &listing.PetsAllowed,
		&listing.Description, &listing.ImageURL, &listing.ApplyURL, &amenities, &listing.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrListingNotFound, listingID)
		}
		return nil, err
	}

	if err := json.Unmarshal(amenities, &listing.Amenities); err != nil {
		listing.Amenities = []string{}
	}

	return &listing, nil
}

// getCriteria reads the session's cached questionnaire answers. Criteria
// are written once by parse-questionnaire and are immutable afterwards.
func (h *Handler) getCriteria(ctx context.Context, sessionID string) (*models.UserCriteria, error) {
	if sessionID == "" {
		return nil, ErrCriteriaMissing
	}

	val, err := h.redis.Get(ctx, "steady:criteria:"+sessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: session %s", ErrCriteriaMissing, sessionID)
	}

	var criteria models.UserCriteria
	if err := json.Unmarshal([]byte(val), &criteria); err != nil {
		return nil, fmt.Errorf("%w: session %s", ErrCriteriaMissing, sessionID)
	}
	return &criteria, nil
}

func errorCodeFor(err error) string {
	switch {
	case errors.Is(err, match.ErrInvalidPrice), errors.Is(err, ErrListingNotFound), errors.Is(err, ErrListingNotActive):
		return "LISTING_INVALID"
	case errors.Is(err, match.ErrInvalidBudget), errors.Is(err, ErrCriteriaMissing):
		return "CRITERIA_INVALID"
	default:
		return "SCORE_FAILED"
	}
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
