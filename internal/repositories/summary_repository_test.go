package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/database"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func capPtr(n int) *int { return &n }

func TestReserve_CreatesRowWithDate(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	require.NoError(t, repo.Reserve(db, "t1", "s#2025-01-06", "2025-01-06", capPtr(3)))

	summary, err := repo.Get(context.Background(), "t1", "s#2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.BookedCount)
	assert.Equal(t, "2025-01-06", summary.Date)
	require.NotNil(t, summary.Capacity)
	assert.Equal(t, 3, *summary.Capacity)
}

func TestReserve_GuardStopsAtCapacity(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", capPtr(2)))
	require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", capPtr(2)))

	err := repo.Reserve(db, "t1", "s#d", "d", capPtr(2))
	assert.ErrorIs(t, err, dto.ErrAtCapacity)

	summary, err := repo.Get(context.Background(), "t1", "s#d")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.BookedCount)
}

func TestReserve_ZeroCapacity(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	err := repo.Reserve(db, "t1", "s#d", "d", capPtr(0))
	assert.ErrorIs(t, err, dto.ErrAtCapacity)
}

func TestReserve_UnlimitedSkipsGuard(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", nil))
	}
	summary, err := repo.Get(context.Background(), "t1", "s#d")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.BookedCount)
	assert.Nil(t, summary.Capacity)
}

func TestReserve_CapacityTracksChanges(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", capPtr(5)))
	// A later reserve with a raised bound refreshes the stored capacity.
	require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", capPtr(8)))

	summary, err := repo.Get(context.Background(), "t1", "s#d")
	require.NoError(t, err)
	require.NotNil(t, summary.Capacity)
	assert.Equal(t, 8, *summary.Capacity)
}

func TestRelease(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", capPtr(2)))
	require.NoError(t, repo.Release(db, "t1", "s#d"))

	summary, err := repo.Get(context.Background(), "t1", "s#d")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.BookedCount)
}

func TestRelease_Underflow(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	// No row at all.
	assert.ErrorIs(t, repo.Release(db, "t1", "s#d"), dto.ErrCounterUnderflow)

	// A drained row cannot go negative.
	require.NoError(t, repo.Reserve(db, "t1", "s#d", "d", nil))
	require.NoError(t, repo.Release(db, "t1", "s#d"))
	assert.ErrorIs(t, repo.Release(db, "t1", "s#d"), dto.ErrCounterUnderflow)
}

func TestGetBatch(t *testing.T) {
	db := setupLedgerDB(t)
	repo := NewSummaryRepository(db)

	ids := make([]string, 0, 150)
	for i := 0; i < 150; i++ {
		id := "s#" + string(rune('0'+i/50)) + string(rune('0'+i%10)) + string(rune('a'+i%26))
		ids = append(ids, id)
	}
	// Seed a third of them.
	for i := 0; i < len(ids); i += 3 {
		require.NoError(t, repo.Reserve(db, "t1", ids[i], "d", nil))
	}

	out, err := repo.GetBatch(context.Background(), "t1", ids)
	require.NoError(t, err)
	assert.Len(t, out, 50, "chunked fetch must cover every id past the first 100")
	for i := 0; i < len(ids); i += 3 {
		assert.Contains(t, out, ids[i])
	}
}
