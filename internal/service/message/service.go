package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
	custrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/customer"
	msgrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/message"
	"github.com/CelestialBrain/sms-scheduler/internal/stream"
	"github.com/CelestialBrain/sms-scheduler/internal/validation"
)

var (
	ErrEmptyBody       = errors.New("message body must not be empty")
	ErrPastSchedule    = errors.New("scheduled time must be in the future")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyTerminal = errors.New("message is in a terminal state")
	ErrNotFailed       = errors.New("only failed messages can be rescheduled")
)

type messageStore interface {
	Insert(ctx context.Context, msg model.ScheduledMessage) error
	Update(ctx context.Context, msg model.ScheduledMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error)
	GetAll(ctx context.Context) ([]model.ScheduledMessage, error)
	GetActive(ctx context.Context) ([]model.ScheduledMessage, error)
	GetByStatus(ctx context.Context, status model.Status) ([]model.ScheduledMessage, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.ScheduledMessage, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status, opts msgrepo.SetStatusOpts) (model.ScheduledMessage, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (model.ScheduledMessage, error)
}

type customerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Customer, error)
}

type statusCache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

type waker interface {
	WakeSoon(id uuid.UUID) error
}

type publisher interface {
	Publish(event stream.Event)
}

// Service owns all message mutations. Every store-confirmed mutation except
// delete is republished on the status stream.
type Service struct {
	store     messageStore
	customers customerStore
	cache     statusCache
	waker     waker
	stream    publisher
	strategy  retry.Strategy
	soonSpan  time.Duration // messages due inside this window request an early wake
}

// Options carries the optional collaborators.
type Options struct {
	Customers customerStore // nil disables customer lookups
	Cache     statusCache   // nil disables the status cache
	Waker     waker         // nil disables early wakes
	Strategy  retry.Strategy
	SoonSpan  time.Duration
}

// NewService builds a message service around the injected store and stream.
func NewService(store messageStore, st publisher, opts Options) *Service {
	return &Service{
		store:     store,
		customers: opts.Customers,
		cache:     opts.Cache,
		waker:     opts.Waker,
		stream:    st,
		strategy:  opts.Strategy,
		soonSpan:  opts.SoonSpan,
	}
}

// ScheduleInput is the caller's view of a new scheduled message.
type ScheduleInput struct {
	CustomerID  *uuid.UUID
	Recipient   string
	Body        string
	ScheduledAt time.Time
	Tags        []string
	Priority    int
	SenderName  string
}

// Schedule validates the input and inserts a pending, active message.
// The scheduled time must be strictly in the future at call time; it is not
// re-validated later.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (model.ScheduledMessage, error) {
	now := time.Now().UTC()

	var customerName string
	recipient := strings.TrimSpace(in.Recipient)

	if in.CustomerID != nil && s.customers != nil {
		c, err := s.customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			if !errors.Is(err, custrepo.ErrCustomerNotFound) {
				return model.ScheduledMessage{}, fmt.Errorf("look up customer: %w", err)
			}
			// Orphaned customer id is tolerated; the denormalized
			// name is whatever the caller last stored.
		} else {
			customerName = c.Name
			if recipient == "" {
				recipient = c.PhoneNumber
			}
		}
	}

	recipient, err := validation.NormalizePhone(recipient)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	if strings.TrimSpace(in.Body) == "" {
		return model.ScheduledMessage{}, ErrEmptyBody
	}

	if !in.ScheduledAt.After(now) {
		return model.ScheduledMessage{}, ErrPastSchedule
	}

	msg := model.ScheduledMessage{
		ID:           uuid.New(),
		CustomerID:   in.CustomerID,
		CustomerName: customerName,
		Recipient:    recipient,
		Body:         in.Body,
		ScheduledAt:  in.ScheduledAt.UTC(),
		Active:       true,
		Status:       model.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Tags:         in.Tags,
		Priority:     model.ClampPriority(in.Priority),
		SenderName:   in.SenderName,
	}

	if err := s.store.Insert(ctx, msg); err != nil {
		return model.ScheduledMessage{}, fmt.Errorf("schedule message: %w", err)
	}

	s.cacheStatus(ctx, msg.ID, msg.Status)
	s.stream.Publish(stream.Event{Kind: stream.EventScheduled, Message: msg})
	s.requestWakeIfSoon(msg)

	return msg, nil
}

// UpdateInput is the caller's view of a full-field replacement.
type UpdateInput struct {
	Recipient   string
	Body        string
	ScheduledAt time.Time
	Tags        []string
	Priority    int
	SenderName  string
}

// Update replaces the mutable fields of an existing message and touches
// updated_at. Status, retry count and timestamps stay untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (model.ScheduledMessage, error) {
	msg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	recipient, err := validation.NormalizePhone(in.Recipient)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	if strings.TrimSpace(in.Body) == "" {
		return model.ScheduledMessage{}, ErrEmptyBody
	}

	msg.Recipient = recipient
	msg.Body = in.Body
	msg.ScheduledAt = in.ScheduledAt.UTC()
	msg.Tags = in.Tags
	msg.Priority = model.ClampPriority(in.Priority)
	msg.SenderName = in.SenderName
	msg.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, msg); err != nil {
		return model.ScheduledMessage{}, fmt.Errorf("update message: %w", err)
	}

	s.stream.Publish(stream.Event{Kind: stream.EventUpdated, Message: msg})
	s.requestWakeIfSoon(msg)

	return msg, nil
}

// Cancel moves a non-terminal message to cancelled. Cancellation only takes
// effect while the poller has not yet picked the message up.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error) {
	msg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	if msg.Status.Terminal() {
		return model.ScheduledMessage{}, ErrAlreadyTerminal
	}

	cancelled, err := s.store.SetStatus(ctx, id, model.StatusCancelled, msgrepo.SetStatusOpts{})
	if err != nil {
		return model.ScheduledMessage{}, fmt.Errorf("cancel message: %w", err)
	}

	s.cacheStatus(ctx, id, cancelled.Status)
	s.stream.Publish(stream.Event{Kind: stream.EventCancelled, Message: cancelled})

	return cancelled, nil
}

// SetActive toggles delivery eligibility without altering status history.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (model.ScheduledMessage, error) {
	msg, err := s.store.SetActive(ctx, id, active)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	kind := stream.EventDisabled
	if active {
		kind = stream.EventEnabled
	}
	s.stream.Publish(stream.Event{Kind: kind, Message: msg})

	return msg, nil
}

// Reschedule makes a failed message eligible again with a new future time.
// This is the only path back from the failed state.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, at time.Time) (model.ScheduledMessage, error) {
	msg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	if msg.Status != model.StatusFailed {
		return model.ScheduledMessage{}, ErrNotFailed
	}

	if !at.After(time.Now().UTC()) {
		return model.ScheduledMessage{}, ErrPastSchedule
	}

	msg.Status = model.StatusPending
	msg.ScheduledAt = at.UTC()
	msg.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, msg); err != nil {
		return model.ScheduledMessage{}, fmt.Errorf("reschedule message: %w", err)
	}

	s.cacheStatus(ctx, id, msg.Status)
	s.stream.Publish(stream.Event{Kind: stream.EventUpdated, Message: msg})
	s.requestWakeIfSoon(msg)

	return msg, nil
}

// Delete removes a message. Deletion is not republished on the stream.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// Get retrieves a single message.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves all messages, or only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]model.ScheduledMessage, error) {
	if activeOnly {
		return s.store.GetActive(ctx)
	}
	return s.store.GetAll(ctx)
}

// ListByStatus retrieves messages in the given status.
func (s *Service) ListByStatus(ctx context.Context, status model.Status) ([]model.ScheduledMessage, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.store.GetByStatus(ctx, status)
}

// ListForCustomer retrieves messages referencing the given customer.
func (s *Service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.ScheduledMessage, error) {
	return s.store.GetByCustomer(ctx, customerID)
}

// GetStatus returns the message status, preferring the cache.
func (s *Service) GetStatus(ctx context.Context, id uuid.UUID) (model.Status, error) {
	if s.cache != nil {
		cached, err := s.cache.GetWithRetry(ctx, s.strategy, id.String())
		if err != nil && !errors.Is(err, redis.Nil) {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get message status from cache")
		}
		if err == nil && model.Status(cached).Valid() {
			return model.Status(cached), nil
		}
	}

	msg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	s.cacheStatus(ctx, id, msg.Status)
	return msg.Status, nil
}

// CacheRefresher returns a stream handler that mirrors every published
// status into the cache. The poller records its transitions directly against
// the store, so without this subscription a delivered message would keep its
// stale cached status.
func (s *Service) CacheRefresher(ctx context.Context) stream.Handler {
	return func(e stream.Event) {
		s.cacheStatus(ctx, e.Message.ID, e.Message.Status)
	}
}

func (s *Service) cacheStatus(ctx context.Context, id uuid.UUID, status model.Status) {
	if s.cache == nil {
		return
	}

	if err := s.cache.SetWithRetry(ctx, s.strategy, id.String(), string(status)); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache message status")
	}
}

func (s *Service) requestWakeIfSoon(msg model.ScheduledMessage) {
	if s.waker == nil || s.soonSpan <= 0 {
		return
	}

	if time.Until(msg.ScheduledAt) > s.soonSpan {
		return
	}

	if err := s.waker.WakeSoon(msg.ID); err != nil {
		zlog.Logger.Warn().Err(err).Str("id", msg.ID.String()).Msg("failed to request early wake")
	}
}
