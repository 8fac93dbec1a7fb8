package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, created_at
		FROM items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *ItemRepository) Get(ctx context.Context, id string) (*domain.Item, error) {
	item := &domain.Item{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, created_at
		FROM items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return item, nil
}

func (r *ItemRepository) Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	item := &domain.Item{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Price:     in.Price,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, item.ID, item.Name, item.Price, item.CreatedAt)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *ItemRepository) Update(ctx context.Context, id string, in domain.ItemInput) (*domain.Item, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = $2, price = $3, updated_at = NOW()
		WHERE id = $1
	`, id, in.Name, in.Price)
	if err != nil {
		return nil, err
	}

	if err := expectRow(result); err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func (r *ItemRepository) Stats(ctx context.Context) (domain.ItemStats, error) {
	var stats domain.ItemStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(price), 0)
		FROM items
	`).Scan(&stats.Count, &stats.TotalValue)
	return stats, err
}
