package customer

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

func setupMockDB(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	store := NewPostgresStore(wrappedDB)

	return store, mock
}

var customerRowColumns = []string{
	"id", "name", "phone_number", "email", "notes", "tags", "metadata",
	"created_at", "updated_at", "active",
}

func TestPostgresStore_Insert(t *testing.T) {
	store, mock := setupMockDB(t)

	now := time.Now().UTC()
	c := model.Customer{
		ID:          uuid.New(),
		Name:        "Juan dela Cruz",
		PhoneNumber: "09171234567",
		Tags:        []string{"vip"},
		Metadata:    map[string]string{"region": "NCR"},
		CreatedAt:   now,
		UpdatedAt:   now,
		Active:      true,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO customers (`)).
		WithArgs(
			c.ID, c.Name, c.PhoneNumber, "", "",
			"vip", "region:NCR",
			c.CreatedAt, c.UpdatedAt, c.Active,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Insert(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Update_NotFound(t *testing.T) {
	store, mock := setupMockDB(t)

	c := model.Customer{ID: uuid.New(), Name: "Juan", PhoneNumber: "09171234567"}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE customers`)).
		WithArgs(c.ID, c.Name, c.PhoneNumber, "", "", "", "", c.UpdatedAt, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), c)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetByID(t *testing.T) {
	store, mock := setupMockDB(t)

	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(customerRowColumns).
		AddRow(id, "Juan dela Cruz", "09171234567", "juan@example.com", "",
			"vip,reseller", "plan:prepaid|region:NCR", now, now, true)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1;
    `)).
		WithArgs(id).
		WillReturnRows(rows)

	c, err := store.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, []string{"vip", "reseller"}, c.Tags)
	assert.Equal(t, map[string]string{"plan": "prepaid", "region": "NCR"}, c.Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1;
    `)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = store.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Search(t *testing.T) {
	store, mock := setupMockDB(t)

	now := time.Now().UTC()

	rows := sqlmock.NewRows(customerRowColumns).
		AddRow(uuid.New(), "Maria Santos", "09181234567", "", "", "", "", now, now, true)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE '%' || $1 || '%' OR phone_number ILIKE '%' || $1 || '%'
		ORDER BY name ASC;
    `)).
		WithArgs("maria").
		WillReturnRows(rows)

	got, err := store.Search(context.Background(), "maria")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Maria Santos", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
