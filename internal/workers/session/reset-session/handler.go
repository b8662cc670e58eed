// internal/workers/session/reset-session/handler.go
package resetsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "reset-session"
)

var (
	ErrSessionMissing = errors.New("sessionId is required")
	ErrResetFailed    = errors.New("session reset failed")
)

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
		code := "SEEN_SET_FAILED"
		if errors.Is(err, ErrSessionMissing) {
			code = "CRITERIA_INVALID"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute clears the terminal selection state: the seen set always, the
// cached criteria unless the caller keeps them. DEL on absent keys is a
// no-op, so restarting an already-idle session is safe.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, ErrSessionMissing
	}

	keys := []string{"steady:seen:" + input.SessionID}
	if !input.KeepCriteria {
		keys = append(keys, "steady:criteria:"+input.SessionID)
	}

	cleared, err := h.redis.Del(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResetFailed, err)
	}

	h.logger.Info("session reset", map[string]interface{}{
		"sessionId":    input.SessionID,
		"clearedKeys":  cleared,
		"keptCriteria": input.KeepCriteria,
	})

	return &Output{ClearedKeys: int(cleared), Reset: true}, nil
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
