package dto

// ScheduleRequest creates a new scheduled message. ScheduledAt is RFC3339.
// Recipient may be omitted when CustomerID resolves to a stored customer.
type ScheduleRequest struct {
	CustomerID  string   `json:"customer_id"`
	Recipient   string   `json:"recipient"`
	Body        string   `json:"body" validate:"required"`
	ScheduledAt string   `json:"scheduled_at" validate:"required"`
	Tags        []string `json:"tags"`
	Priority    int      `json:"priority" validate:"omitempty,min=1,max=5"`
	SenderName  string   `json:"sender_name"`
}

// UpdateRequest replaces the mutable fields of a scheduled message.
type UpdateRequest struct {
	Recipient   string   `json:"recipient" validate:"required"`
	Body        string   `json:"body" validate:"required"`
	ScheduledAt string   `json:"scheduled_at" validate:"required"`
	Tags        []string `json:"tags"`
	Priority    int      `json:"priority" validate:"omitempty,min=1,max=5"`
	SenderName  string   `json:"sender_name"`
}

// RescheduleRequest makes a failed message pending again.
type RescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"`
}

// CustomerRequest creates or replaces a customer record.
type CustomerRequest struct {
	Name        string            `json:"name" validate:"required"`
	PhoneNumber string            `json:"phone_number" validate:"required"`
	Email       string            `json:"email" validate:"omitempty,email"`
	Notes       string            `json:"notes"`
	Tags        []string          `json:"tags"`
	Metadata    map[string]string `json:"metadata"`
}
