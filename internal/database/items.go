package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const itemColumns = `id, owner_id, name, description, available, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (owner_id, name, description, available, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		item.OwnerID, item.Name, item.Description, item.Available, now, now)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	var item models.Item
	err := db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.Description,
		&item.Available, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, id int64, upd models.ItemUpdate) (*models.Item, error) {
	item, err := db.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	now := time.Now().UTC()
	if _, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, now, id); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	item.UpdatedAt = now
	return item, nil
}

func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		it := &models.Item{}
		err := rows.Scan(
			&it.ID, &it.OwnerID, &it.Name, &it.Description,
			&it.Available, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
