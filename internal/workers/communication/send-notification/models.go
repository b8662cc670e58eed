// internal/workers/communication/send-notification/models.go
package sendnotification

import "steadyone-workers/internal/models"

// Channel selects the delivery transport for an alert.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type Input struct {
	SessionID string          `json:"sessionId"`
	Channel   Channel         `json:"channel"`
	Recipient string          `json:"recipient"`
	Subject   string          `json:"subject,omitempty"`
	Body      string          `json:"body,omitempty"`
	Listing   *models.Listing `json:"listing,omitempty"`
}

type Output struct {
	Sent      bool    `json:"sent"`
	MessageID string  `json:"messageId,omitempty"`
	Channel   Channel `json:"channel"`
}
