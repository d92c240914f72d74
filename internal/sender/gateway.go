package sender

import (
	"context"

	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
	"github.com/CelestialBrain/sms-scheduler/pkg/semaphore"
)

// GatewaySender delivers messages through the Semaphore HTTP gateway.
// High-priority messages (or all of them, when alwaysPriority is set) are
// routed through the provider's priority endpoint.
type GatewaySender struct {
	client         *semaphore.Client
	senderName     string // default sender name, overridable per message
	alwaysPriority bool
}

var _ Sender = (*GatewaySender)(nil)

// NewGatewaySender creates a gateway-backed sender.
func NewGatewaySender(client *semaphore.Client, senderName string, alwaysPriority bool) *GatewaySender {
	return &GatewaySender{
		client:         client,
		senderName:     senderName,
		alwaysPriority: alwaysPriority,
	}
}

func (s *GatewaySender) Send(ctx context.Context, msg model.ScheduledMessage) error {
	name := s.senderName
	if msg.SenderName != "" {
		name = msg.SenderName
	}

	var (
		resp *semaphore.SendResponse
		err  error
	)

	if s.alwaysPriority || msg.HighPriority() {
		resp, err = s.client.SendPriority(ctx, msg.Recipient, msg.Body, name)
	} else {
		resp, err = s.client.Send(ctx, msg.Recipient, msg.Body, name)
	}
	if err != nil {
		return err
	}

	zlog.Logger.Info().
		Str("id", msg.ID.String()).
		Str("gateway_message_id", resp.MessageID.String()).
		Str("network", resp.Network).
		Msg("message accepted by gateway")

	return nil
}
