package message

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

// record mirrors the flat storage layout of a scheduled message: nullable
// columns as pointers and tags as a single comma-joined string.
type record struct {
	ID           uuid.UUID
	CustomerID   *uuid.UUID
	CustomerName string
	Recipient    string
	Body         string
	ScheduledAt  time.Time
	Active       bool
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SentAt       *time.Time
	ErrorMessage *string
	RetryCount   int
	Tags         string
	Priority     int
	SenderName   string
}

func toRecord(m model.ScheduledMessage) record {
	return record{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		Recipient:    m.Recipient,
		Body:         m.Body,
		ScheduledAt:  m.ScheduledAt,
		Active:       m.Active,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		SentAt:       m.SentAt,
		ErrorMessage: m.ErrorMessage,
		RetryCount:   m.RetryCount,
		Tags:         joinTags(m.Tags),
		Priority:     m.Priority,
		SenderName:   m.SenderName,
	}
}

func fromRecord(r record) model.ScheduledMessage {
	return model.ScheduledMessage{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Recipient:    r.Recipient,
		Body:         r.Body,
		ScheduledAt:  r.ScheduledAt,
		Active:       r.Active,
		Status:       model.Status(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		SentAt:       r.SentAt,
		ErrorMessage: r.ErrorMessage,
		RetryCount:   r.RetryCount,
		Tags:         splitTags(r.Tags),
		Priority:     r.Priority,
		SenderName:   r.SenderName,
	}
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
