package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a contact record a scheduled message may reference.
type Customer struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	PhoneNumber string            `json:"phone_number"`
	Email       string            `json:"email,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Active      bool              `json:"active"`
}
