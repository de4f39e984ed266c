package repository

import (
	"context"
	"testing"
	"time"

	"marketplace-backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The derived schedule status must be filtered in SQL, not after the page
// is cut, so the count and the rows come from the same predicate.
func TestBannerRepositoryListFiltersDerivedStatusInSQL(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("expired", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBannerRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "banners" WHERE .*ends_at IS NOT NULL AND ends_at < \$`).
			WithArgs("customer", now).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "banners" WHERE .*ends_at IS NOT NULL AND ends_at < \$`).
			WithArgs("customer", now, 20).
			WillReturnRows(sqlmock.NewRows([]string{"title_en", "banner_type"}).
				AddRow("Summer sale", "customer"))

		banners, total, err := repo.List(context.Background(), BannerListFilter{
			BannerType: model.BannerTypeCustomer,
			Status:     model.BannerStatusExpired,
			Now:        now,
			Page:       1,
			Limit:      20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, banners, 1)
		assert.Equal(t, "Summer sale", banners[0].TitleEn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("active excludes expired and scheduled windows", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBannerRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "banners" WHERE .*is_active = \$`).
			WithArgs(now, now, true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT \* FROM "banners" WHERE .*is_active = \$`).
			WithArgs(now, now, true, 20).
			WillReturnRows(sqlmock.NewRows([]string{"title_en"}))

		banners, total, err := repo.List(context.Background(), BannerListFilter{
			Status: model.BannerStatusActive,
			Now:    now,
			Page:   1,
			Limit:  20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, banners)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
