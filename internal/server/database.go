package server

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	repo "github.com/joseph-ayodele/label-tracker/internal/repository"
)

// ConnectDB opens the store described by cfg, pings it and makes sure the orders
// table exists.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repo.DB, repo.OrderRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
		BusyTimeout:      cfg.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, nil, common.DatabaseError("open database", err)
	}
	if err := repo.HealthCheck(ctx, db, cfg.DialTimeout, logger); err != nil {
		db.Close(logger)
		return nil, nil, common.DatabaseError("ping database", err)
	}

	orders := repo.NewOrderRepository(db, logger)
	if err := orders.Init(ctx); err != nil {
		db.Close(logger)
		return nil, nil, err
	}
	return db, orders, nil
}
