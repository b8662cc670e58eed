// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/metrics"
	"steadyone-workers/internal/common/validation"
	"steadyone-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-notification"
)

var (
	ErrInvalidNotification = errors.New("notification request is invalid")
	ErrSendFailed          = errors.New("notification delivery failed")
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendListingAlert(ctx context.Context, recipient, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) (string, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
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
		code := "NOTIFICATION_SEND_FAILED"
		if errors.Is(err, ErrInvalidNotification) {
			code = "NOTIFICATION_INVALID"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.validate(input); err != nil {
		return nil, err
	}

	var (
		messageID string
		err       error
	)

	switch input.Channel {
	case ChannelEmail:
		subject := input.Subject
		if subject == "" {
			subject = "Your next apartment match is ready"
		}
		body := input.Body
		if body == "" && input.Listing != nil {
			body = buildListingBody(input.Listing)
		}
		messageID, err = h.email.SendListingAlert(ctx, input.Recipient, subject, body)
	case ChannelSMS:
		message := input.Body
		if message == "" && input.Listing != nil {
			message = buildListingSMS(input.Listing)
		}
		if len(message) > h.config.MaxSMSChars {
			message = message[:h.config.MaxSMSChars]
		}
		messageID, err = h.sms.SendSMS(ctx, input.Recipient, message)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	h.logger.Info("notification sent", map[string]interface{}{
		"sessionId": input.SessionID,
		"channel":   input.Channel,
		"messageId": messageID,
	})

	return &Output{Sent: true, MessageID: messageID, Channel: input.Channel}, nil
}

func (h *Handler) validate(input *Input) error {
	if input.Recipient == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidNotification)
	}

	switch input.Channel {
	case ChannelEmail:
		if !validation.ValidateEmail(input.Recipient) {
			return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidNotification, input.Recipient)
		}
	case ChannelSMS:
		if !validation.ValidatePhone(input.Recipient) {
			return fmt.Errorf("%w: %q is not a valid phone number", ErrInvalidNotification, input.Recipient)
		}
	default:
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidNotification, input.Channel)
	}

	if input.Body == "" && input.Listing == nil {
		return fmt.Errorf("%w: either body or listing must be provided", ErrInvalidNotification)
	}
	return nil
}

func buildListingBody(l *models.Listing) string {
	pets := "no pet policy listed"
	if l.PetsAllowed != nil {
		if *l.PetsAllowed {
			pets = "pets allowed"
		} else {
			pets = "no pets"
		}
	}
	return fmt.Sprintf(
		"New listing in %s, %s: %d bedroom, %.1f bath at $%d/month (%s).\n\nApply: %s",
		l.Neighborhood, l.Borough, l.Bedrooms, l.Bathrooms, l.Price, pets, l.ApplyURL,
	)
}

func buildListingSMS(l *models.Listing) string {
	return fmt.Sprintf("SteadyOne: %dbr in %s for $%d/mo. %s",
		l.Bedrooms, l.Neighborhood, l.Price, l.ApplyURL)
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
