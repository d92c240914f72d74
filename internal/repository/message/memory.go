package message

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

// MemoryStore is a session-durable in-memory message store. State is lost
// when the process exits. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	msgs map[uuid.UUID]model.ScheduledMessage
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory message store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{msgs: make(map[uuid.UUID]model.ScheduledMessage)}
}

// Insert adds or fully replaces a record by id.
func (s *MemoryStore) Insert(_ context.Context, msg model.ScheduledMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs[msg.ID] = copyMessage(msg)
	return nil
}

// Update replaces all fields of an existing record.
func (s *MemoryStore) Update(_ context.Context, msg model.ScheduledMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.msgs[msg.ID]; !ok {
		return ErrMessageNotFound
	}

	s.msgs[msg.ID] = copyMessage(msg)
	return nil
}

// Delete removes a record by id.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.msgs[id]; !ok {
		return ErrMessageNotFound
	}

	delete(s.msgs, id)
	return nil
}

// GetByID retrieves a single record by id.
func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (model.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.msgs[id]
	if !ok {
		return model.ScheduledMessage{}, ErrMessageNotFound
	}

	return copyMessage(msg), nil
}

// GetAll retrieves every record ordered by ascending scheduled time.
func (s *MemoryStore) GetAll(_ context.Context) ([]model.ScheduledMessage, error) {
	return s.filter(func(model.ScheduledMessage) bool { return true }, ascending), nil
}

// GetActive retrieves records with active=true, scheduled ascending.
func (s *MemoryStore) GetActive(_ context.Context) ([]model.ScheduledMessage, error) {
	return s.filter(func(m model.ScheduledMessage) bool { return m.Active }, ascending), nil
}

// GetDue retrieves the due set: active, pending, scheduled at or before now.
func (s *MemoryStore) GetDue(_ context.Context, now time.Time) ([]model.ScheduledMessage, error) {
	return s.filter(func(m model.ScheduledMessage) bool {
		return m.Active && m.Status == model.StatusPending && !m.ScheduledAt.After(now)
	}, ascending), nil
}

// GetByStatus retrieves records with the given status, scheduled descending.
func (s *MemoryStore) GetByStatus(_ context.Context, status model.Status) ([]model.ScheduledMessage, error) {
	return s.filter(func(m model.ScheduledMessage) bool { return m.Status == status }, descending), nil
}

// GetByCustomer retrieves records referencing the given customer, scheduled ascending.
func (s *MemoryStore) GetByCustomer(_ context.Context, customerID uuid.UUID) ([]model.ScheduledMessage, error) {
	return s.filter(func(m model.ScheduledMessage) bool {
		return m.CustomerID != nil && *m.CustomerID == customerID
	}, ascending), nil
}

// SetStatus updates status plus the optional fields and touches updated_at.
// A transition to failed increments retry_count.
func (s *MemoryStore) SetStatus(_ context.Context, id uuid.UUID, status model.Status, opts SetStatusOpts) (model.ScheduledMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.msgs[id]
	if !ok {
		return model.ScheduledMessage{}, ErrMessageNotFound
	}

	msg.Status = status
	if opts.ErrorMessage != nil {
		errMsg := *opts.ErrorMessage
		msg.ErrorMessage = &errMsg
	}
	if opts.SentAt != nil {
		sentAt := *opts.SentAt
		msg.SentAt = &sentAt
	}
	if status == model.StatusFailed {
		msg.RetryCount++
	}
	msg.UpdatedAt = time.Now().UTC()

	s.msgs[id] = msg
	return copyMessage(msg), nil
}

// SetActive toggles the active flag and touches updated_at.
func (s *MemoryStore) SetActive(_ context.Context, id uuid.UUID, active bool) (model.ScheduledMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.msgs[id]
	if !ok {
		return model.ScheduledMessage{}, ErrMessageNotFound
	}

	msg.Active = active
	msg.UpdatedAt = time.Now().UTC()

	s.msgs[id] = msg
	return copyMessage(msg), nil
}

// Clear drops all records.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = make(map[uuid.UUID]model.ScheduledMessage)
	return nil
}

type order int

const (
	ascending order = iota
	descending
)

func (s *MemoryStore) filter(keep func(model.ScheduledMessage) bool, ord order) []model.ScheduledMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ScheduledMessage
	for _, msg := range s.msgs {
		if keep(msg) {
			out = append(out, copyMessage(msg))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if ord == descending {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	return out
}

// copyMessage detaches the tags slice and pointer fields so callers only
// ever hold transient copies.
func copyMessage(m model.ScheduledMessage) model.ScheduledMessage {
	out := m

	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.CustomerID != nil {
		id := *m.CustomerID
		out.CustomerID = &id
	}
	if m.SentAt != nil {
		t := *m.SentAt
		out.SentAt = &t
	}
	if m.ErrorMessage != nil {
		s := *m.ErrorMessage
		out.ErrorMessage = &s
	}

	return out
}
