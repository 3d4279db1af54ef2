package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

const defaultLimit = 100

// Append inserts a new ledger entry. Entries are never updated or deleted.
func (r *PostgresLedgerRepository) Append(e models.LedgerEntry) (models.LedgerEntry, error) {
	query := `INSERT INTO ledger_entries (item_id, item_name, location, delta, kind, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query,
		e.ItemID, e.ItemName, e.Location, e.Delta, string(e.Kind), e.Reason, e.Actor, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return e, nil
}

// GetByItemID returns the entries for a specific item.
func (r *PostgresLedgerRepository) GetByItemID(itemID int, f LedgerFilter) ([]models.LedgerEntry, int, error) {
	whereClause, args := r.buildWhereClause("item_id = $1", []any{itemID}, f)

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if f.Limit != nil && *f.Limit == 0 {
		return []models.LedgerEntry{}, total, nil
	}
	if f.Offset != nil && *f.Offset >= total {
		return []models.LedgerEntry{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, f)
	entries, err := r.executeQuery(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return entries, total, nil
}

// GetAll returns every entry matching the filter in chronological order.
func (r *PostgresLedgerRepository) GetAll(f LedgerFilter) ([]models.LedgerEntry, error) {
	whereClause, args := r.buildWhereClause("1=1", nil, f)
	query := fmt.Sprintf(`SELECT id, item_id, item_name, location, delta, kind, reason, actor, created_at
		FROM ledger_entries WHERE %s ORDER BY created_at, id`, whereClause)
	return r.executeQuery(query, args)
}

// SumByItemID returns the authoritative quantity for an item: the sum of
// every delta ever recorded for it.
func (r *PostgresLedgerRepository) SumByItemID(itemID int) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var sum int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM ledger_entries WHERE item_id = $1`, itemID).Scan(&sum)
	return sum, err
}

func (r *PostgresLedgerRepository) buildWhereClause(base string, baseArgs []any, f LedgerFilter) (string, []any) {
	args := baseArgs
	whereClause := base
	argIndex := len(baseArgs) + 1

	if f.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *f.Since)
		argIndex++
	}
	if f.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *f.Until)
		argIndex++
	}
	if f.Kind != "" {
		whereClause += fmt.Sprintf(" AND kind = $%d", argIndex)
		args = append(args, string(f.Kind))
		argIndex++
	}
	if f.Location != "" {
		whereClause += fmt.Sprintf(" AND location = $%d", argIndex)
		args = append(args, f.Location)
	}

	return whereClause, args
}

func (r *PostgresLedgerRepository) buildMainQuery(whereClause string, baseArgs []any, f LedgerFilter) (string, []any) {
	query := fmt.Sprintf(`SELECT id, item_id, item_name, location, delta, kind, reason, actor, created_at
		FROM ledger_entries WHERE %s ORDER BY created_at DESC, id DESC`, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	limit := defaultLimit
	if f.Limit != nil && *f.Limit > 0 {
		limit = min(*f.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *f.Offset)
	}

	return query, args
}

func (r *PostgresLedgerRepository) getTotal(whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ledger_entries WHERE %s", whereClause)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresLedgerRepository) executeQuery(query string, args []any) ([]models.LedgerEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var kind string
		var reason sql.NullString
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ItemName, &e.Location, &e.Delta, &kind, &reason, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = models.EntryKind(kind)
		e.Reason = reason.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
