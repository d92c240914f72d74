// Package wakeup provides the optional early-wake capability: when a
// message is scheduled to be due before the next regular poll tick, a wake
// token is published to a TTL queue whose dead-letter delivery triggers an
// immediate tick. Best-effort latency reducer; the poller's own ticker is
// always the fallback, so the capability may be absent entirely.
package wakeup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExchangeName   = "sms-wake-exchange"
	DelayQueueName = "sms-wake-delay"
	WakeQueueName  = "sms-wake"
	RoutingKey     = "wake"
)

// Waker publishes delayed wake tokens and surfaces their delivery as an
// early-wake channel for the poller.
type Waker struct {
	publisher *rabbitmq.Publisher
	consumer  *rabbitmq.Consumer
	strategy  retry.Strategy
	wakes     chan struct{}
}

// New declares the wake queues on the channel. Tokens published to the
// delay queue dead-letter into the wake queue after delayMillis.
func New(ch *rabbitmq.Channel, delayMillis int32, strategy retry.Strategy) (*Waker, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	wakeQ, err := qm.DeclareQueue(WakeQueueName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare wake queue: %w", err)
	}

	delayArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": WakeQueueName,
		"x-message-ttl":             delayMillis,
	}

	delayQ, err := qm.DeclareQueue(DelayQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    delayArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare delay queue: %w", err)
	}

	if err := ch.QueueBind(delayQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the delay queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(wakeQ.Name))

	return &Waker{
		publisher: pub,
		consumer:  cons,
		strategy:  strategy,
		wakes:     make(chan struct{}, 1),
	}, nil
}

// WakeSoon enqueues a wake token for the given message id.
func (w *Waker) WakeSoon(id uuid.UUID) error {
	return w.publisher.PublishWithRetry([]byte(id.String()), RoutingKey, "text/plain", w.strategy)
}

// Wakes is the channel the poller selects on. At most one wake is buffered;
// coalescing extra tokens is fine since a tick drains the whole due set.
func (w *Waker) Wakes() <-chan struct{} {
	return w.wakes
}

// Run consumes wake tokens until ctx is done.
func (w *Waker) Run(ctx context.Context) {
	msgChan := make(chan []byte)

	go func() {
		if err := w.consumer.ConsumeWithRetry(msgChan, w.strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume wake tokens")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case token := <-msgChan:
			zlog.Logger.Debug().Str("token", string(token)).Msg("wake token received")
			select {
			case w.wakes <- struct{}{}:
			default:
			}
		}
	}
}
