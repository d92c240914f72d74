// Package poller implements the due-message scan-and-send loop. On every
// tick it drains the store's due set through the injected sender, recording
// the pending -> sending -> {sent | failed} transitions. Failed messages are
// never retried automatically; only an explicit reschedule makes them
// eligible again.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
	"github.com/CelestialBrain/sms-scheduler/internal/repository/message"
	"github.com/CelestialBrain/sms-scheduler/internal/stream"
)

var (
	ErrAlreadyRunning = errors.New("poller already running")
	ErrNotRunning     = errors.New("poller not running")
)

type messageStore interface {
	GetDue(ctx context.Context, now time.Time) ([]model.ScheduledMessage, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status, opts message.SetStatusOpts) (model.ScheduledMessage, error)
}

type messageSender interface {
	Send(ctx context.Context, msg model.ScheduledMessage) error
}

type publisher interface {
	Publish(event stream.Event)
}

// Poller drives periodic delivery of due messages. One poller per store;
// two pollers against the same persistent store would race on status
// updates (no claim or lease protocol).
type Poller struct {
	store    messageStore
	sender   messageSender
	stream   publisher
	interval time.Duration
	wake     <-chan struct{} // optional early-wake signal, may be nil

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New builds a poller. wake may be nil; it is an optional capability that
// triggers an out-of-schedule tick.
func New(store messageStore, snd messageSender, st publisher, interval time.Duration, wake <-chan struct{}) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Poller{
		store:    store,
		sender:   snd,
		stream:   st,
		interval: interval,
		wake:     wake,
	}
}

// Start begins the background loop with an immediate first tick.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(loopCtx)
	zlog.Logger.Info().Dur("interval", p.interval).Msg("poller started")

	return nil
}

// Stop cancels the loop and waits for the current tick to finish.
func (p *Poller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrNotRunning
	}

	p.cancel()
	<-p.done
	p.running = false

	zlog.Logger.Info().Msg("poller stopped")
	return nil
}

// IsRunning reports the poller state.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		case <-p.wake:
			zlog.Logger.Debug().Msg("early wake received")
			p.Tick(ctx)
		}
	}
}

// Tick runs one due-message scan-and-send cycle. Messages are processed
// sequentially in ascending scheduled-time order; a send failure is recorded
// on its message and never aborts the batch.
func (p *Poller) Tick(ctx context.Context) {
	now := time.Now().UTC()

	due, err := p.store.GetDue(ctx, now)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to query due messages")
		return
	}

	if len(due) == 0 {
		return
	}

	zlog.Logger.Info().Int("count", len(due)).Msg("processing due messages")

	for _, msg := range due {
		if ctx.Err() != nil {
			return
		}

		p.process(ctx, msg)
	}
}

func (p *Poller) process(ctx context.Context, msg model.ScheduledMessage) {
	sending, err := p.store.SetStatus(ctx, msg.ID, model.StatusSending, message.SetStatusOpts{})
	if err != nil {
		// Cancelled or deleted between the due query and now.
		zlog.Logger.Warn().Err(err).Str("id", msg.ID.String()).Msg("failed to mark message sending")
		return
	}
	p.stream.Publish(stream.Event{Kind: stream.EventStatusChanged, Message: sending})

	if err := p.sender.Send(ctx, sending); err != nil {
		errText := err.Error()
		failed, setErr := p.store.SetStatus(ctx, msg.ID, model.StatusFailed, message.SetStatusOpts{
			ErrorMessage: &errText,
		})
		if setErr != nil {
			zlog.Logger.Error().Err(setErr).Str("id", msg.ID.String()).Msg("failed to mark message failed")
			return
		}

		zlog.Logger.Warn().Err(err).Str("id", msg.ID.String()).Int("retry_count", failed.RetryCount).Msg("message delivery failed")
		p.stream.Publish(stream.Event{Kind: stream.EventStatusChanged, Message: failed})
		return
	}

	sentAt := time.Now().UTC()
	sent, err := p.store.SetStatus(ctx, msg.ID, model.StatusSent, message.SetStatusOpts{SentAt: &sentAt})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", msg.ID.String()).Msg("failed to mark message sent")
		return
	}

	zlog.Logger.Info().Str("id", msg.ID.String()).Str("recipient", sent.Recipient).Msg("message sent")
	p.stream.Publish(stream.Event{Kind: stream.EventStatusChanged, Message: sent})
}
