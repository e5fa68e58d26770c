// Package email sends the site's transactional mail: form notifications to
// the office and acknowledgements to customers.
package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	From    string
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult identifies an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
