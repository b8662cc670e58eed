// internal/workers/listing/select-next-listing/handler.go
package selectnextlisting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"
	"steadyone-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "select-next-listing"

	seenKeyPrefix = "steady:seen:"
)

var (
	ErrCriteriaInvalid = errors.New("criteria missing or malformed")
	ErrStoreFailed     = errors.New("listing store query failed")
	ErrSeenSetFailed   = errors.New("seen set access failed")
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

	metrics.SelectionOutcomes.WithLabelValues(string(output.State)).Inc()
	h.completeJob(client, job, output)
}

// execute walks the selection policy: count eligible candidates, detect
// the two terminal states, then fetch one listing at a stable offset and
// mark it seen. The seen-mark happens only after a successful fetch so a
// cancelled selection never corrupts the seen set.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" || input.Criteria == nil || input.Criteria.BudgetMax <= 0 {
		return nil, ErrCriteriaInvalid
	}

	eligibleCount, err := h.eligibleCount(ctx, input.Criteria)
	if err != nil {
		return nil, err
	}

	if eligibleCount == 0 {
		h.logger.Info("no matching listings for criteria", map[string]interface{}{
			"sessionId": input.SessionID,
		})
		return &Output{State: models.SelectionNoMatches}, nil
	}

	seenCount, err := h.redis.SCard(ctx, seenKeyPrefix+input.SessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeenSetFailed, err)
	}

	if int(seenCount) >= eligibleCount {
		h.logger.Info("session exhausted the eligible pool", map[string]interface{}{
			"sessionId":     input.SessionID,
			"eligibleCount": eligibleCount,
			"seenCount":     seenCount,
		})
		return &Output{
			State:         models.SelectionExhausted,
			EligibleCount: eligibleCount,
			SeenCount:     int(seenCount),
		}, nil
	}

	listing, err := h.pickUnseen(ctx, input, eligibleCount)
	if err != nil {
		return nil, err
	}

	if err := h.markSeen(ctx, input.SessionID, listing.ID); err != nil {
		return nil, err
	}

	h.logger.Info("listing selected", map[string]interface{}{
		"sessionId":     input.SessionID,
		"listingId":     listing.ID,
		"eligibleCount": eligibleCount,
	})

	return &Output{
		State:         models.SelectionShowing,
		Listing:       listing,
		EligibleCount: eligibleCount,
		SeenCount:     int(seenCount) + 1,
	}, nil
}

// pickUnseen fetches the candidate at a starting offset and walks forward
// (wrapping) past already-seen ids. The walk is bounded: when the cap is
// reached a possibly-seen listing is served rather than looping forever.
func (h *Handler) pickUnseen(ctx context.Context, input *Input, eligibleCount int) (*models.Listing, error) {
	offset := rand.Intn(eligibleCount)
	if input.OffsetSeed != nil {
		// Go's % keeps the dividend's sign; fold negative seeds back
		// into [0, eligibleCount) so the offset is always valid.
		offset = ((*input.OffsetSeed % eligibleCount) + eligibleCount) % eligibleCount
	}

	maxAttempts := 2 * eligibleCount
	if maxAttempts > h.config.RetryCap {
		maxAttempts = h.config.RetryCap
	}

	var listing *models.Listing
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var err error
		listing, err = h.fetchAt(ctx, input.Criteria, offset)
		if err != nil {
			return nil, err
		}

		seen, err := h.redis.SIsMember(ctx, seenKeyPrefix+input.SessionID, listing.ID).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeenSetFailed, err)
		}
		if !seen {
			return listing, nil
		}

		offset = (offset + 1) % eligibleCount
	}

	h.logger.Warn("retry cap reached, serving possibly-seen listing", map[string]interface{}{
		"sessionId": input.SessionID,
		"listingId": listing.ID,
	})
	return listing, nil
}

// bedroomCondition returns the SQL predicate for the bedroom filter.
// "3+" is open-ended; every other choice is an exact match.
func bedroomCondition(choice models.BedroomChoice) string {
	if choice == models.BedroomsThreePlus {
		return "bedrooms >= $2"
	}
	return "bedrooms = $2"
}

// Candidate hygiene lives in the query: only Active rows within budget,
// with a photo, deduplicated on identical image URLs.
func (h *Handler) eligibleCount(ctx context.Context, criteria *models.UserCriteria) (int, error) {
	desired, _ := criteria.Bedrooms.Desired()
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM (
			SELECT DISTINCT ON (image_url) id
			FROM listings
			WHERE status = 'Active' AND price <= $1 AND %s AND image_url <> ''
		) candidates`, bedroomCondition(criteria.Bedrooms))

	var count int
	if err := h.db.QueryRowContext(ctx, query, criteria.BudgetMax, desired).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return count, nil
}

func (h *Handler) fetchAt(ctx context.Context, criteria *models.UserCriteria, offset int) (*models.Listing, error) {
	desired, _ := criteria.Bedrooms.Desired()
	query := fmt.Sprintf(`
		SELECT id, price, bedrooms, bathrooms, borough, neighborhood,
		       pets_allowed, description, image_url, apply_url, amenities, status
		FROM (
			SELECT DISTINCT ON (image_url) *
			FROM listings
			WHERE status = 'Active' AND price <= $1 AND %s AND image_url <> ''
			ORDER BY image_url, id
		) candidates
		ORDER BY id ASC
		OFFSET $3 LIMIT 1`, bedroomCondition(criteria.Bedrooms))

	row := h.db.QueryRowContext(ctx, query, criteria.BudgetMax, desired, offset)

	var listing models.Listing
	var amenities []byte
	err := row.Scan(&listing.ID, &listing.Price, &listing.Bedrooms, &listing.Bathrooms,
		&listing.Borough, &listing.Neighborhood, &listing.PetsAllowed,
		&listing.Description, &listing.ImageURL, &listing.ApplyURL, &amenities, &listing.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	if err := json.Unmarshal(amenities, &listing.Amenities); err != nil {
		listing.Amenities = []string{}
	}

	return &listing, nil
}

func (h *Handler) markSeen(ctx context.Context, sessionID, listingID string) error {
	key := seenKeyPrefix + sessionID
	if err := h.redis.SAdd(ctx, key, listingID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSeenSetFailed, err)
	}
	if err := h.redis.Expire(ctx, key, h.config.SeenSetTTL).Err(); err != nil {
		h.logger.Warn("failed to refresh seen set TTL", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
	return nil
}

func errorCodeFor(err error) string {
	switch {
	case errors.Is(err, ErrCriteriaInvalid):
		return "CRITERIA_INVALID"
	case errors.Is(err, ErrSeenSetFailed):
		return "SEEN_SET_FAILED"
	default:
		return "STORE_UNAVAILABLE"
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
