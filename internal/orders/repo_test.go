package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
CREATE TABLE orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company_org_id INTEGER NOT NULL,
  placed_by_user_id INTEGER NOT NULL,
  reference TEXT,
  status TEXT NOT NULL DEFAULT 'Open',
  placed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)

	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, companyOrgID int64, createdAt time.Time) models.Order {
	t.Helper()

	order := models.Order{
		CompanyOrgID:   companyOrgID,
		PlacedByUserID: 1,
		Status:         enums.OrderStatusOpen,
		PlacedAt:       createdAt,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	require.NoError(t, conn.Create(&order).Error)
	return order
}

func TestRepoOrderRoundTrip(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	ref := "PO-1001"
	order := &models.Order{
		CompanyOrgID:   10,
		PlacedByUserID: 3,
		Reference:      &ref,
		Status:         enums.OrderStatusOpen,
	}
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)

	found, err := repo.Find(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), found.CompanyOrgID)
	require.NotNil(t, found.Reference)
	assert.Equal(t, "PO-1001", *found.Reference)

	found.Status = enums.OrderStatusCompleted
	require.NoError(t, repo.Save(ctx, found))

	again, err := repo.Find(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, again.Status)
}

func TestRepoListByCompanyNewestFirst(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := seedOrder(t, conn, 10, base.Add(-2*time.Hour))
	newer := seedOrder(t, conn, 10, base)
	seedOrder(t, conn, 99, base.Add(time.Hour))

	rows, err := repo.ListByCompany(ctx, 10, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestRepoListByCompanyCursorWindow(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var seeded []models.Order
	for i := 0; i < 5; i++ {
		seeded = append(seeded, seedOrder(t, conn, 10, base.Add(time.Duration(i)*time.Minute)))
	}

	first, err := repo.ListByCompany(ctx, 10, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, seeded[4].ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.ListByCompany(ctx, 10, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, seeded[2].ID, second[0].ID)
	assert.Equal(t, seeded[1].ID, second[1].ID)
}
