package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	models "github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

type PostgresItemRepository struct {
	db *sql.DB
}

func NewPostgresItemRepository(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

func (r *PostgresItemRepository) Create(i models.Item) (models.Item, error) {
	query := `INSERT INTO items (name, location, category, quantity, threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, i.Name, i.Location, i.Category, i.Quantity, i.Threshold, i.CreatedAt, i.UpdatedAt).Scan(&i.ID)
	if err != nil && strings.Contains(err.Error(), "unique constraint") {
		return models.Item{}, ErrDuplicatedValueUnique
	}
	return i, err
}

func (r *PostgresItemRepository) GetAll() ([]models.Item, error) {
	query := `SELECT id, name, location, category, quantity, threshold FROM items ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Location, &i.Category, &i.Quantity, &i.Threshold); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *PostgresItemRepository) GetByID(id int) (models.Item, error) {
	query := `SELECT id, name, location, category, quantity, threshold FROM items WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var i models.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(&i.ID, &i.Name, &i.Location, &i.Category, &i.Quantity, &i.Threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	return i, err
}

func (r *PostgresItemRepository) GetByNameAndLocation(name, location string) (models.Item, error) {
	query := `SELECT id, name, location, category, quantity, threshold FROM items WHERE LOWER(name) = LOWER($1) AND location = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var i models.Item
	err := r.db.QueryRowContext(ctx, query, name, location).Scan(&i.ID, &i.Name, &i.Location, &i.Category, &i.Quantity, &i.Threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	return i, err
}

func (r *PostgresItemRepository) GetByName(name string) ([]models.Item, error) {
	query := `SELECT id, name, location, category, quantity, threshold FROM items WHERE LOWER(name) = LOWER($1) ORDER BY location`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Location, &i.Category, &i.Quantity, &i.Threshold); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *PostgresItemRepository) Update(i models.Item) (models.Item, error) {
	query := `UPDATE items SET name = $1, location = $2, category = $3, quantity = $4, threshold = $5, updated_at = $6 WHERE id = $7`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, i.Name, i.Location, i.Category, i.Quantity, i.Threshold, i.UpdatedAt, i.ID)
	if err != nil {
		return models.Item{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Item{}, ErrItemNotFound
	}
	return i, nil
}

func (r *PostgresItemRepository) UpdateQuantity(id, quantity int) (models.Item, error) {
	query := `
		UPDATE items
		SET quantity = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, name, location, category, quantity, threshold
	`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var i models.Item
	err := r.db.QueryRowContext(ctx, query, quantity, time.Now().UTC(), id).
		Scan(&i.ID, &i.Name, &i.Location, &i.Category, &i.Quantity, &i.Threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	return i, err
}

func (r *PostgresItemRepository) SetThresholdByName(name string, threshold int) (int, error) {
	query := `UPDATE items SET threshold = $1, updated_at = $2 WHERE LOWER(name) = LOWER($3)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, threshold, time.Now().UTC(), name)
	if err != nil {
		return 0, err
	}
	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}

func (r *PostgresItemRepository) Delete(id int) error {
	query := `DELETE FROM items WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresItemRepository) DeleteByName(name string) (int, error) {
	query := `DELETE FROM items WHERE LOWER(name) = LOWER($1)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return 0, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return 0, ErrItemNotFound
	}
	return int(rowsAffected), nil
}

func (r *PostgresItemRepository) Filter(f ItemFilter) ([]models.Item, int, error) {
	conditions, args, argIdx := itemFilterConditions(f)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM items WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, location, category, quantity, threshold FROM items WHERE 1=1`
	query += conditions
	query += " ORDER BY id"

	if f.Limit != nil && *f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *f.Limit)
		argIdx++
	}
	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Location, &i.Category, &i.Quantity, &i.Threshold); err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}

	return items, totalCount, rows.Err()
}

func itemFilterConditions(f ItemFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if f.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+f.Name+"%")
		argIdx++
	}
	if f.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argIdx)
		args = append(args, f.Location)
		argIdx++
	}
	if f.Category != "" {
		query += fmt.Sprintf(" AND LOWER(category) = LOWER($%d)", argIdx)
		args = append(args, f.Category)
		argIdx++
	}
	if f.MinQty != nil {
		query += fmt.Sprintf(" AND quantity >= $%d", argIdx)
		args = append(args, *f.MinQty)
		argIdx++
	}
	if f.MaxQty != nil {
		query += fmt.Sprintf(" AND quantity <= $%d", argIdx)
		args = append(args, *f.MaxQty)
		argIdx++
	}
	if f.LowStock {
		query += " AND quantity <= threshold"
	}

	return query, args, argIdx
}
