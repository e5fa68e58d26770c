package email

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// NoopSender logs instead of sending.  It is used when no Resend API key
// is configured.
type NoopSender struct{}

func NewNoopSender() *NoopSender { return &NoopSender{} }

func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	id := "noop-" + uuid.NewString()
	log.Infof("email: noop %q to %v (id=%s)", req.Subject, req.To, id)
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}
