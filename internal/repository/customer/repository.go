package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// Store is the storage surface for customer records, mirroring the message
// store: postgres and in-memory implementations chosen at construction time.
type Store interface {
	Insert(ctx context.Context, c model.Customer) error
	// Update replaces all fields of an existing record.
	// Returns ErrCustomerNotFound if the id is absent.
	Update(ctx context.Context, c model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Customer, error)
	// GetAll returns every record ordered by name ascending.
	GetAll(ctx context.Context) ([]model.Customer, error)
	// GetByPhone returns the first record matching the phone number.
	GetByPhone(ctx context.Context, phone string) (model.Customer, error)
	// Search matches name or phone by case-insensitive substring, name ascending.
	Search(ctx context.Context, query string) ([]model.Customer, error)
	Clear(ctx context.Context) error
}
