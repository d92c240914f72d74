package message

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

// SetStatusOpts carries the optional fields of a partial status update.
type SetStatusOpts struct {
	ErrorMessage *string
	SentAt       *time.Time
}

// Store is the storage surface for scheduled messages. Two implementations
// exist: a postgres-backed one and a session-durable in-memory one. The
// embedding application picks one at construction time.
//
// A transition to StatusFailed increments the retry count in every
// implementation; callers never mutate retry counts directly.
type Store interface {
	// Insert adds or fully replaces a record by id.
	Insert(ctx context.Context, msg model.ScheduledMessage) error
	// Update replaces all fields of an existing record.
	// Returns ErrMessageNotFound if the id is absent.
	Update(ctx context.Context, msg model.ScheduledMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error)
	// GetAll returns every record ordered by ascending scheduled time.
	GetAll(ctx context.Context) ([]model.ScheduledMessage, error)
	GetActive(ctx context.Context) ([]model.ScheduledMessage, error)
	// GetDue returns active, pending records whose scheduled time is at or
	// before now, ordered ascending. This is the set the poller consumes.
	GetDue(ctx context.Context, now time.Time) ([]model.ScheduledMessage, error)
	// GetByStatus returns matching records ordered by descending scheduled time.
	GetByStatus(ctx context.Context, status model.Status) ([]model.ScheduledMessage, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.ScheduledMessage, error)
	// SetStatus partially updates status plus optional fields and touches
	// updated_at, returning the updated record.
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status, opts SetStatusOpts) (model.ScheduledMessage, error)
	// SetActive toggles the active flag without touching status.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (model.ScheduledMessage, error)
	// Clear drops all records. Test and reset utility.
	Clear(ctx context.Context) error
}
