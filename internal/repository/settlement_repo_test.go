package repository

import (
	"context"
	"testing"
	"time"

	"marketplace-backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestSettlementRepositoryCountByPrefix(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettlementRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "settlements"`).
		WithArgs("STL-20250615-%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByPrefix(context.Background(), "STL-20250615-")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementRepositoryListPendingPastDue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettlementRepository(db)

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "settlements" WHERE status = \$1 AND due_date < \$2`).
		WithArgs(model.SettlementPending, now).
		WillReturnRows(sqlmock.NewRows([]string{"settlement_no", "status"}).
			AddRow("STL-20250601-00001", model.SettlementPending))

	settlements, err := repo.ListPendingPastDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, "STL-20250601-00001", settlements[0].SettlementNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementRepositorySettledOrderIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettlementRepository(db)

	mock.ExpectQuery(`SELECT "orders_included" FROM "settlements"`).
		WillReturnRows(sqlmock.NewRows([]string{"orders_included"}).
			AddRow([]byte(`["7b0e3c8e-8a37-4c2e-9a38-0d9d0cf4b7a1","1f0a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8"]`)).
			AddRow([]byte(`[]`)))

	settled, err := repo.SettledOrderIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, settled, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
