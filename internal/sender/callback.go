package sender

import (
	"context"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

// SendFunc is a caller-supplied delivery function. Returning false without
// an error still fails the attempt.
type SendFunc func(ctx context.Context, msg model.ScheduledMessage) (bool, error)

// CallbackSender delegates delivery to a caller-supplied function. It is
// the injection point for embedding applications that own their own
// transport, such as on-device telephony.
type CallbackSender struct {
	fn SendFunc
}

var _ Sender = (*CallbackSender)(nil)

// NewCallbackSender wraps fn. A nil fn makes every send fail with
// ErrNoSenderConfigured.
func NewCallbackSender(fn SendFunc) *CallbackSender {
	return &CallbackSender{fn: fn}
}

func (s *CallbackSender) Send(ctx context.Context, msg model.ScheduledMessage) error {
	if s.fn == nil {
		return ErrNoSenderConfigured
	}

	ok, err := s.fn(ctx, msg)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSendRejected
	}

	return nil
}
