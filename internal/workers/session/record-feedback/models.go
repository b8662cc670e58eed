// internal/workers/session/record-feedback/models.go
package recordfeedback

import "steadyone-workers/internal/models"

type Input struct {
	SessionID string                `json:"sessionId"`
	Reason    models.FeedbackReason `json:"reason"`
	Comment   string                `json:"comment,omitempty"`
}

type Output struct {
	FeedbackID string `json:"feedbackId"`
}
