package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusrent/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var escrowColumns = []string{
	"id", "rental_id", "renter_id", "vendor_id", "total_amount", "commission_fee",
	"vendor_amount", "state", "payment_reference", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func heldRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(escrowColumns).
		AddRow(id, "rental-1", 1, 2, "1000.00", "50.00", "950.00", "held", "pi_123", now, now)
}

func TestEscrowRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEscrowRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "escrow_transactions" WHERE id = \$1`).
		WillReturnRows(heldRow("esc-1"))

	got, err := repo.GetByID(context.Background(), "esc-1")
	require.NoError(t, err)
	assert.Equal(t, "esc-1", got.ID)
	assert.Equal(t, models.EscrowStateHeld, got.State)
	assert.Equal(t, "950", got.VendorAmount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscrowRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEscrowRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "escrow_transactions" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(escrowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEscrowNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscrowRepository_TransitionLocksAndRollsBackOnApplyError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEscrowRepository(db)
	errGateway := errors.New("gateway down")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "escrow_transactions" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(heldRow("esc-1"))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), "esc-1", func(e *models.EscrowTransaction) (*models.EscrowEvent, error) {
		assert.Equal(t, models.EscrowStateHeld, e.State)
		return nil, errGateway
	})
	assert.ErrorIs(t, err, errGateway)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscrowRepository_TransitionNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEscrowRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows(escrowColumns))
	mock.ExpectRollback()

	called := false
	_, err := repo.Transition(context.Background(), "missing", func(*models.EscrowTransaction) (*models.EscrowEvent, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrEscrowNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}
