package repo

import (
	"context"
	"database/sql"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m Metrics

	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&m.TotalItems)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&m.TotalEntries)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE quantity <= threshold`).Scan(&m.LowStockCount)

	_ = r.db.QueryRowContext(ctx, `
		SELECT i.name, COUNT(*) as cnt
		FROM ledger_entries e
		JOIN items i ON e.item_id = i.id
		GROUP BY i.name
		ORDER BY cnt DESC
		LIMIT 1
	`).Scan(&m.MostMovedItem.Name, &m.MostMovedItem.EntryCount)

	return m, nil
}
