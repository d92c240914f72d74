package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

const customerColumns = `
		id, name, phone_number, email, notes, tags, metadata,
		created_at, updated_at, active`

// PostgresStore provides postgres-backed storage for customers.
type PostgresStore struct {
	db *dbpg.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a customer store on top of an open connection.
func NewPostgresStore(db *dbpg.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert adds or fully replaces a record by id.
func (s *PostgresStore) Insert(ctx context.Context, c model.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
		    name = EXCLUDED.name,
		    phone_number = EXCLUDED.phone_number,
		    email = EXCLUDED.email,
		    notes = EXCLUDED.notes,
		    tags = EXCLUDED.tags,
		    metadata = EXCLUDED.metadata,
		    created_at = EXCLUDED.created_at,
		    updated_at = EXCLUDED.updated_at,
		    active = EXCLUDED.active;
    `

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.PhoneNumber, c.Email, c.Notes,
		joinTags(c.Tags), joinMetadata(c.Metadata),
		c.CreatedAt, c.UpdatedAt, c.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	return nil
}

// Update replaces all fields of an existing record.
func (s *PostgresStore) Update(ctx context.Context, c model.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone_number = $3, email = $4, notes = $5,
		    tags = $6, metadata = $7, updated_at = $8, active = $9
		WHERE id = $1;
    `

	res, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.PhoneNumber, c.Email, c.Notes,
		joinTags(c.Tags), joinMetadata(c.Metadata), c.UpdatedAt, c.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// Delete removes a record by id.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// GetByID retrieves a single record by id.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1;
    `

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Customer{}, ErrCustomerNotFound
		}

		return model.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return c, nil
}

// GetAll retrieves every record ordered by name ascending.
func (s *PostgresStore) GetAll(ctx context.Context) ([]model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		ORDER BY name ASC;
    `

	return s.queryCustomers(ctx, query)
}

// GetByPhone retrieves the first record matching the phone number.
func (s *PostgresStore) GetByPhone(ctx context.Context, phone string) (model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE phone_number = $1
		ORDER BY created_at ASC
		LIMIT 1;
    `

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Customer{}, ErrCustomerNotFound
		}

		return model.Customer{}, fmt.Errorf("failed to get customer by phone: %w", err)
	}

	return c, nil
}

// Search matches name or phone by case-insensitive substring, name ascending.
func (s *PostgresStore) Search(ctx context.Context, q string) ([]model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE '%' || $1 || '%' OR phone_number ILIKE '%' || $1 || '%'
		ORDER BY name ASC;
    `

	return s.queryCustomers(ctx, query, q)
}

// Clear drops all records.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM customers;`); err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}

	return nil
}

func (s *PostgresStore) queryCustomers(ctx context.Context, query string, args ...interface{}) ([]model.Customer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}

		customers = append(customers, c)
	}

	return customers, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(sc scanner) (model.Customer, error) {
	var (
		c        model.Customer
		tags     string
		metadata string
	)

	err := sc.Scan(
		&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.Notes, &tags, &metadata,
		&c.CreatedAt, &c.UpdatedAt, &c.Active,
	)
	if err != nil {
		return model.Customer{}, err
	}

	c.Tags = splitTags(tags)
	c.Metadata = splitMetadata(metadata)

	return c, nil
}
