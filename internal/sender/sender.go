// Package sender defines the delivery capability the poller is built
// against, with gateway and callback implementations. The poller is
// identical regardless of which one is injected.
package sender

import (
	"context"
	"errors"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

var (
	// ErrNoSenderConfigured is returned when no delivery callback was supplied.
	ErrNoSenderConfigured = errors.New("no sender configured")
	// ErrSendRejected is returned when a callback reports failure without an error.
	ErrSendRejected = errors.New("send rejected by callback")
)

// Sender delivers a single message. A nil return means the message was
// handed to the delivery backend successfully.
type Sender interface {
	Send(ctx context.Context, msg model.ScheduledMessage) error
}
