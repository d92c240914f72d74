package customer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

// MemoryStore is a session-durable in-memory customer store.
// Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]model.Customer
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory customer store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{customers: make(map[uuid.UUID]model.Customer)}
}

// Insert adds or fully replaces a record by id.
func (s *MemoryStore) Insert(_ context.Context, c model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers[c.ID] = copyCustomer(c)
	return nil
}

// Update replaces all fields of an existing record.
func (s *MemoryStore) Update(_ context.Context, c model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[c.ID]; !ok {
		return ErrCustomerNotFound
	}

	s.customers[c.ID] = copyCustomer(c)
	return nil
}

// Delete removes a record by id.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return ErrCustomerNotFound
	}

	delete(s.customers, id)
	return nil
}

// GetByID retrieves a single record by id.
func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return model.Customer{}, ErrCustomerNotFound
	}

	return copyCustomer(c), nil
}

// GetAll retrieves every record ordered by name ascending.
func (s *MemoryStore) GetAll(_ context.Context) ([]model.Customer, error) {
	return s.filter(func(model.Customer) bool { return true }), nil
}

// GetByPhone retrieves the first record matching the phone number.
func (s *MemoryStore) GetByPhone(_ context.Context, phone string) (model.Customer, error) {
	matches := s.filter(func(c model.Customer) bool { return c.PhoneNumber == phone })
	if len(matches) == 0 {
		return model.Customer{}, ErrCustomerNotFound
	}

	return matches[0], nil
}

// Search matches name or phone by case-insensitive substring, name ascending.
func (s *MemoryStore) Search(_ context.Context, query string) ([]model.Customer, error) {
	q := strings.ToLower(query)

	return s.filter(func(c model.Customer) bool {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.PhoneNumber), q)
	}), nil
}

// Clear drops all records.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers = make(map[uuid.UUID]model.Customer)
	return nil
}

func (s *MemoryStore) filter(keep func(model.Customer) bool) []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Customer
	for _, c := range s.customers {
		if keep(c) {
			out = append(out, copyCustomer(c))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func copyCustomer(c model.Customer) model.Customer {
	out := c

	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}

	return out
}
