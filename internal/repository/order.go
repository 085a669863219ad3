package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/label-tracker/constants"
	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/entity"
)

type OrderRepository interface {
	// Init ensures the orders table exists. Idempotent.
	Init(ctx context.Context) error
	// Insert appends rec as a new row and returns its id. Never deduplicates.
	Insert(ctx context.Context, rec entity.Record) (int64, error)
	// ListAll returns every saved order, newest first.
	ListAll(ctx context.Context) ([]*entity.Order, error)
	Count(ctx context.Context) (int, error)
}

type orderRepository struct {
	db     *DB
	logger *slog.Logger
	// writes are serialized; each insert also runs in its own transaction
	mu sync.Mutex
}

func NewOrderRepository(db *DB, logger *slog.Logger) OrderRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Migrate(ctx, r.db); err != nil {
		r.logger.Error("failed to initialize orders table", "error", err)
		return common.DatabaseError("init orders table", err)
	}
	return nil
}

func (r *orderRepository) Insert(ctx context.Context, rec entity.Record) (int64, error) {
	values := rec.Values()
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Driver.Tx(ctx)
	if err != nil {
		return 0, common.DatabaseError("begin insert", err)
	}
	id, err := r.insertTx(ctx, tx, args)
	if err != nil {
		_ = tx.Rollback()
		r.logger.Error("failed to insert order", "order_no", rec.OrderNo, "error", err)
		return 0, common.DatabaseError("insert order", err)
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit order", "order_no", rec.OrderNo, "error", err)
		return 0, common.DatabaseError("commit order", err)
	}
	r.logger.Debug("order inserted", "id", id, "order_no", rec.OrderNo)
	return id, nil
}

func (r *orderRepository) insertTx(ctx context.Context, tx dialect.Tx, args []any) (int64, error) {
	b := entsql.Dialect(r.db.Dialect()).
		Insert(OrdersTable).
		Columns(constants.RecordFields...).
		Values(args...)

	if r.db.Dialect() == dialect.Postgres {
		query, qargs := b.Returning("id").Query()
		var rows entsql.Rows
		if err := tx.Query(ctx, query, qargs, &rows); err != nil {
			return 0, err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("insert returned no id")
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, rows.Err()
	}

	query, qargs := b.Query()
	var res entsql.Result
	if err := tx.Exec(ctx, query, qargs, &res); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	cols := append([]string{"id"}, constants.RecordFields...)
	query, args := entsql.Dialect(r.db.Dialect()).
		Select(cols...).
		From(entsql.Table(OrdersTable)).
		OrderBy(entsql.Desc("id")).
		Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		r.logger.Error("failed to list orders", "error", err)
		return nil, common.DatabaseError("list orders", err)
	}
	defer rows.Close()

	result := make([]*entity.Order, 0)
	for rows.Next() {
		o := &entity.Order{}
		dest := []any{&o.ID}
		for _, f := range constants.RecordFields {
			dest = append(dest, o.FieldPtr(f))
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, common.DatabaseError("scan order", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, common.DatabaseError("list orders", err)
	}
	return result, nil
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	query, args := entsql.Dialect(r.db.Dialect()).
		Select(entsql.Count("*")).
		From(entsql.Table(OrdersTable)).
		Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return 0, common.DatabaseError("count orders", err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, common.DatabaseError("count orders", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, common.DatabaseError("count orders", err)
	}
	return n, nil
}
