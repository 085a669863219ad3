package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
)

func newTestRepo(t *testing.T) (OrderRepository, *DB) {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: filepath.Join(t.TempDir(), "labels.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })

	repo := NewOrderRepository(db, nil)
	require.NoError(t, repo.Init(ctx))
	return repo, db
}

func TestOrderRepository_InsertAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	r1 := entity.Record{Name: "Jane", Pincode: "600011", OrderNo: "A1"}
	r2 := entity.Record{Name: "John", Address: "1 Road, Town, ST, 110001", Price: "Rs 1,299.00"}

	id1, err := repo.Insert(ctx, r1)
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, r2)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, &entity.Order{ID: id2, Record: r2}, orders[0])
	assert.Equal(t, &entity.Order{ID: id1, Record: r1}, orders[1])
}

func TestOrderRepository_EmptyStore(t *testing.T) {
	repo, _ := newTestRepo(t)

	orders, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderRepository_DuplicateSavesAreDistinctRows(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	rec := entity.Record{Name: "Jane", OrderNo: "A1"}
	id1, err := repo.Insert(ctx, rec)
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, rec)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOrderRepository_EmptyRecordRoundTrips(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	id, err := repo.Insert(ctx, entity.Record{})
	require.NoError(t, err)

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, id, orders[0].ID)
	assert.Equal(t, entity.Record{}, orders[0].Record)
}

func TestOrderRepository_InitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)

	_, err := repo.Insert(ctx, entity.Record{Name: "kept"})
	require.NoError(t, err)

	require.NoError(t, repo.Init(ctx))
	require.NoError(t, NewOrderRepository(db, nil).Init(ctx))

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "kept", orders[0].Name)
}

func TestOrderRepository_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Insert(ctx, entity.Record{OrderNo: fmt.Sprintf("N%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestHealthCheck(t *testing.T) {
	_, db := newTestRepo(t)
	assert.NoError(t, HealthCheck(context.Background(), db, 0, nil))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)",
		sqliteDSN("a.db", 2e9))
	assert.Contains(t, sqliteDSN("file:a.db?mode=rwc", 0), "mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
}

func TestConfigIsPostgres(t *testing.T) {
	assert.True(t, Config{DSN: "postgres://u@h/db"}.IsPostgres())
	assert.True(t, Config{DSN: "POSTGRESQL://u@h/db"}.IsPostgres())
	assert.False(t, Config{DSN: "labels.db"}.IsPostgres())
}
