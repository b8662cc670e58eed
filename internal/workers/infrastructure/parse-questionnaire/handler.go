// internal/workers/infrastructure/parse-questionnaire/handler.go
package parsequestionnaire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"
	"steadyone-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "parse-questionnaire"
)

// answersSchema is the contract for questionnaire form values. Budget must
// be positive; the choice fields are closed enums.
const answersSchema = `{
	"type": "object",
	"required": ["budgetMax", "bedrooms", "pets"],
	"properties": {
		"boroughs": {
			"type": "array",
			"items": {
				"type": "string",
				"enum": ["Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"]
			}
		},
		"budgetMax": {"type": "integer", "minimum": 1},
		"bedrooms": {"type": "string", "enum": ["0", "1", "2", "3+"]},
		"bathrooms": {"type": "string", "enum": ["1", "1.5", "2+"]},
		"pets": {"type": "string", "enum": ["none", "cats", "dogs", "both"]},
		"amenities": {"type": "array", "items": {"type": "string"}}
	}
}`

var ErrInvalidAnswers = errors.New("questionnaire answers failed validation")

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "CRITERIA_INVALID", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidAnswers)
	}

	if err := validateAnswers(&input.Answers); err != nil {
		return nil, err
	}

	criteria := normalize(&input.Answers)

	// The cache is an optimization: scoring accepts inline criteria, so a
	// failed write downgrades to Cached=false instead of failing the job.
	cached := true
	payload, _ := json.Marshal(criteria)
	if err := h.redis.Set(ctx, "steady:criteria:"+input.SessionID, payload, h.config.CriteriaTTL).Err(); err != nil {
		h.logger.Warn("criteria cache write failed", map[string]interface{}{
			"sessionId": input.SessionID,
			"error":     err,
		})
		cached = false
	}

	h.logger.Info("criteria parsed", map[string]interface{}{
		"sessionId": input.SessionID,
		"budgetMax": criteria.BudgetMax,
		"bedrooms":  criteria.Bedrooms,
	})

	return &Output{Criteria: criteria, Cached: cached}, nil
}

func validateAnswers(answers *Answers) error {
	doc := gojsonschema.NewGoLoader(answers)
	schema := gojsonschema.NewStringLoader(answersSchema)

	result, err := gojsonschema.Validate(schema, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidAnswers, strings.Join(messages, "; "))
	}
	return nil
}

// normalize maps validated raw answers onto the immutable session
// criteria. Borough casing is preserved; matching downcases later.
func normalize(answers *Answers) *models.UserCriteria {
	return &models.UserCriteria{
		Boroughs:  answers.Boroughs,
		BudgetMax: answers.BudgetMax,
		Bedrooms:  models.BedroomChoice(answers.Bedrooms),
		Bathrooms: models.BathroomChoice(answers.Bathrooms),
		Pets:      models.PetPreference(answers.Pets),
		Amenities: answers.Amenities,
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
