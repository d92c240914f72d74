package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
	"github.com/CelestialBrain/sms-scheduler/internal/validation"
)

var (
	ErrEmptyName = errors.New("customer name must not be empty")
)

type customerStore interface {
	Insert(ctx context.Context, c model.Customer) error
	Update(ctx context.Context, c model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Customer, error)
	GetAll(ctx context.Context) ([]model.Customer, error)
	GetByPhone(ctx context.Context, phone string) (model.Customer, error)
	Search(ctx context.Context, query string) ([]model.Customer, error)
}

// Service owns customer record mutations.
type Service struct {
	store customerStore
}

// NewService builds a customer service around the injected store.
func NewService(store customerStore) *Service {
	return &Service{store: store}
}

// Input is the caller's view of a customer create or update.
type Input struct {
	Name        string
	PhoneNumber string
	Email       string
	Notes       string
	Tags        []string
	Metadata    map[string]string
}

// Create validates and inserts a new active customer.
func (s *Service) Create(ctx context.Context, in Input) (model.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Customer{}, ErrEmptyName
	}

	phone, err := validation.NormalizePhone(in.PhoneNumber)
	if err != nil {
		return model.Customer{}, err
	}

	now := time.Now().UTC()
	c := model.Customer{
		ID:          uuid.New(),
		Name:        in.Name,
		PhoneNumber: phone,
		Email:       in.Email,
		Notes:       in.Notes,
		Tags:        in.Tags,
		Metadata:    in.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
		Active:      true,
	}

	if err := s.store.Insert(ctx, c); err != nil {
		return model.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	return c, nil
}

// Update replaces the mutable fields of an existing customer.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (model.Customer, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return model.Customer{}, ErrEmptyName
	}

	phone, err := validation.NormalizePhone(in.PhoneNumber)
	if err != nil {
		return model.Customer{}, err
	}

	c.Name = in.Name
	c.PhoneNumber = phone
	c.Email = in.Email
	c.Notes = in.Notes
	c.Tags = in.Tags
	c.Metadata = in.Metadata
	c.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, c); err != nil {
		return model.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	return c, nil
}

// Delete removes a customer. Messages referencing it keep working off the
// denormalized name.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// Get retrieves a single customer.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves all customers ordered by name.
func (s *Service) List(ctx context.Context) ([]model.Customer, error) {
	return s.store.GetAll(ctx)
}

// GetByPhone retrieves the first customer matching the phone number.
func (s *Service) GetByPhone(ctx context.Context, phone string) (model.Customer, error) {
	return s.store.GetByPhone(ctx, phone)
}

// Search matches name or phone by case-insensitive substring.
func (s *Service) Search(ctx context.Context, query string) ([]model.Customer, error) {
	return s.store.Search(ctx, query)
}
