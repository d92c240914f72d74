package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the delivery state of a scheduled message.
type Status string

const (
	StatusPending   Status = "pending"   // waiting for its scheduled time
	StatusSending   Status = "sending"   // delivery attempt in progress
	StatusSent      Status = "sent"      // delivered successfully
	StatusFailed    Status = "failed"    // last attempt failed; retried only via explicit reschedule
	StatusCancelled Status = "cancelled" // cancelled by the caller before delivery
)

// Priority bounds for a scheduled message. Messages at or above
// PriorityHighThreshold are routed through the gateway's priority endpoint.
const (
	PriorityMin           = 1
	PriorityDefault       = 3
	PriorityHighThreshold = 4
	PriorityMax           = 5
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSending, StatusSent, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further automatic transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// Description returns human-readable text for UI rendering.
func (s Status) Description() string {
	switch s {
	case StatusPending:
		return "Waiting to be sent"
	case StatusSending:
		return "Sending"
	case StatusSent:
		return "Sent"
	case StatusFailed:
		return "Failed to send"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// ScheduledMessage represents an SMS message queued for future delivery.
type ScheduledMessage struct {
	ID           uuid.UUID  `json:"id"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`   // optional, not referentially enforced
	CustomerName string     `json:"customer_name,omitempty"` // denormalized fallback for orphaned customer ids
	Recipient    string     `json:"recipient"`
	Body         string     `json:"body"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Active       bool       `json:"active"` // false suppresses delivery without touching status
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	RetryCount   int        `json:"retry_count"`
	Tags         []string   `json:"tags,omitempty"`
	Priority     int        `json:"priority"`
	SenderName   string     `json:"sender_name,omitempty"` // per-message override of the gateway sender name
}

// HighPriority reports whether the message should use the gateway's
// priority endpoint.
func (m ScheduledMessage) HighPriority() bool {
	return m.Priority >= PriorityHighThreshold
}

// ClampPriority normalizes p into the 1..5 range, defaulting when unset.
func ClampPriority(p int) int {
	if p == 0 {
		return PriorityDefault
	}
	if p < PriorityMin {
		return PriorityMin
	}
	if p > PriorityMax {
		return PriorityMax
	}
	return p
}
