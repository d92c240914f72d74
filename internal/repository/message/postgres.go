package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

const messageColumns = `
		id, customer_id, customer_name, recipient, body, scheduled_at, active,
		status, created_at, updated_at, sent_at, error_message, retry_count,
		tags, priority, sender_name`

// PostgresStore provides postgres-backed storage for scheduled messages.
type PostgresStore struct {
	db *dbpg.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a message store on top of an open connection.
func NewPostgresStore(db *dbpg.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert adds or fully replaces a record by id.
func (s *PostgresStore) Insert(ctx context.Context, msg model.ScheduledMessage) error {
	r := toRecord(msg)

	query := `
		INSERT INTO scheduled_messages (` + messageColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
		    customer_id = EXCLUDED.customer_id,
		    customer_name = EXCLUDED.customer_name,
		    recipient = EXCLUDED.recipient,
		    body = EXCLUDED.body,
		    scheduled_at = EXCLUDED.scheduled_at,
		    active = EXCLUDED.active,
		    status = EXCLUDED.status,
		    created_at = EXCLUDED.created_at,
		    updated_at = EXCLUDED.updated_at,
		    sent_at = EXCLUDED.sent_at,
		    error_message = EXCLUDED.error_message,
		    retry_count = EXCLUDED.retry_count,
		    tags = EXCLUDED.tags,
		    priority = EXCLUDED.priority,
		    sender_name = EXCLUDED.sender_name;
    `

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.CustomerID, r.CustomerName, r.Recipient, r.Body, r.ScheduledAt, r.Active,
		r.Status, r.CreatedAt, r.UpdatedAt, r.SentAt, r.ErrorMessage, r.RetryCount,
		r.Tags, r.Priority, r.SenderName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// Update replaces all fields of an existing record.
func (s *PostgresStore) Update(ctx context.Context, msg model.ScheduledMessage) error {
	r := toRecord(msg)

	query := `
		UPDATE scheduled_messages
		SET customer_id = $2, customer_name = $3, recipient = $4, body = $5,
		    scheduled_at = $6, active = $7, status = $8, updated_at = $9,
		    sent_at = $10, error_message = $11, retry_count = $12, tags = $13,
		    priority = $14, sender_name = $15
		WHERE id = $1;
    `

	res, err := s.db.ExecContext(ctx, query,
		r.ID, r.CustomerID, r.CustomerName, r.Recipient, r.Body,
		r.ScheduledAt, r.Active, r.Status, r.UpdatedAt,
		r.SentAt, r.ErrorMessage, r.RetryCount, r.Tags,
		r.Priority, r.SenderName,
	)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// Delete removes a record by id.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_messages WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// GetByID retrieves a single record by id.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM scheduled_messages
		WHERE id = $1;
    `

	row := s.db.QueryRowContext(ctx, query, id)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScheduledMessage{}, ErrMessageNotFound
		}

		return model.ScheduledMessage{}, fmt.Errorf("failed to get message: %w", err)
	}

	return msg, nil
}

// GetAll retrieves every record ordered by ascending scheduled time.
func (s *PostgresStore) GetAll(ctx context.Context) ([]model.ScheduledMessage, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM scheduled_messages
		ORDER BY scheduled_at ASC;
    `

	return s.queryMessages(ctx, query)
}

// GetActive retrieves records with active=true, scheduled ascending.
func (s *PostgresStore) GetActive(ctx context.Context) ([]model.ScheduledMessage, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM scheduled_messages
		WHERE active = true
		ORDER BY scheduled_at ASC;
    `

	return s.queryMessages(ctx, query)
}

// GetDue retrieves the due set: active, pending, scheduled at or before now.
func (s *PostgresStore) GetDue(ctx context.Context, now time.Time) ([]model.ScheduledMessage, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM scheduled_messages
		WHERE active = true AND status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC;
    `

	return s.queryMessages(ctx, query, model.StatusPending, now)
}

// GetByStatus retrieves records with the given status, scheduled descending.
func (s *PostgresStore) GetByStatus(ctx context.Context, status model.Status) ([]model.ScheduledMessage, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM scheduled_messages
		WHERE status = $1
		ORDER BY scheduled_at DESC;
    `

	return s.queryMessages(ctx, query, status)
}

// GetByCustomer retrieves records referencing the given customer, scheduled ascending.
func (s *PostgresStore) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.ScheduledMessage, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM scheduled_messages
		WHERE customer_id = $1
		ORDER BY scheduled_at ASC;
    `

	return s.queryMessages(ctx, query, customerID)
}

// SetStatus updates status plus the optional fields and touches updated_at.
// A transition to failed increments retry_count.
func (s *PostgresStore) SetStatus(ctx context.Context, id uuid.UUID, status model.Status, opts SetStatusOpts) (model.ScheduledMessage, error) {
	query := `
		UPDATE scheduled_messages
		SET status = $2,
		    error_message = COALESCE($3, error_message),
		    sent_at = COALESCE($4, sent_at),
		    retry_count = retry_count + CASE WHEN $2 = 'failed' THEN 1 ELSE 0 END,
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + messageColumns + `;
    `

	row := s.db.QueryRowContext(ctx, query, id, status, opts.ErrorMessage, opts.SentAt, time.Now().UTC())

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScheduledMessage{}, ErrMessageNotFound
		}

		return model.ScheduledMessage{}, fmt.Errorf("failed to set message status: %w", err)
	}

	return msg, nil
}

// SetActive toggles the active flag and touches updated_at.
func (s *PostgresStore) SetActive(ctx context.Context, id uuid.UUID, active bool) (model.ScheduledMessage, error) {
	query := `
		UPDATE scheduled_messages
		SET active = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + messageColumns + `;
    `

	row := s.db.QueryRowContext(ctx, query, id, active, time.Now().UTC())

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScheduledMessage{}, ErrMessageNotFound
		}

		return model.ScheduledMessage{}, fmt.Errorf("failed to set message active flag: %w", err)
	}

	return msg, nil
}

// Clear drops all records.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_messages;`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	return nil
}

func (s *PostgresStore) queryMessages(ctx context.Context, query string, args ...interface{}) ([]model.ScheduledMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.ScheduledMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}

		msgs = append(msgs, msg)
	}

	return msgs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(sc scanner) (model.ScheduledMessage, error) {
	var (
		r          record
		customerID sql.NullString
		sentAt     sql.NullTime
		errMsg     sql.NullString
	)

	err := sc.Scan(
		&r.ID, &customerID, &r.CustomerName, &r.Recipient, &r.Body, &r.ScheduledAt, &r.Active,
		&r.Status, &r.CreatedAt, &r.UpdatedAt, &sentAt, &errMsg, &r.RetryCount,
		&r.Tags, &r.Priority, &r.SenderName,
	)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	if customerID.Valid {
		id, err := uuid.Parse(customerID.String)
		if err != nil {
			return model.ScheduledMessage{}, fmt.Errorf("invalid customer id %q: %w", customerID.String, err)
		}
		r.CustomerID = &id
	}
	if sentAt.Valid {
		t := sentAt.Time
		r.SentAt = &t
	}
	if errMsg.Valid {
		s := errMsg.String
		r.ErrorMessage = &s
	}

	return fromRecord(r), nil
}
