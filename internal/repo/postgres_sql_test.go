package repo_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/shopcart/internal/repo"
)

func newMockRepo(t *testing.T) (*repo.GormRepo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &repo.GormRepo{DB: db}, mock
}

func TestPostgres_AddItemIsSingleUpsert(t *testing.T) {
	t.Parallel()

	r, mock := newMockRepo(t)
	userID, productID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "carts" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "cart_items" .* ON CONFLICT \("user_id","product_id"\) DO UPDATE SET "quantity"=cart_items\.quantity \+ 1 RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, r.AddItem(context.Background(), userID, productID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_IncreaseItemIsRelative(t *testing.T) {
	t.Parallel()

	r, mock := newMockRepo(t)
	userID, productID := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE "cart_items" SET "quantity"=quantity \+ 1 WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(userID.String(), productID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := r.IncreaseItem(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DecreaseItemGuardsQuantity(t *testing.T) {
	t.Parallel()

	r, mock := newMockRepo(t)
	userID, productID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cart_items" SET "quantity"=quantity - 1 WHERE user_id = \$1 AND product_id = \$2 AND quantity > 1`).
		WithArgs(userID.String(), productID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "cart_items" WHERE user_id = \$1 AND product_id = \$2 AND quantity <= 1`).
		WithArgs(userID.String(), productID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	found, err := r.DecreaseItem(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
