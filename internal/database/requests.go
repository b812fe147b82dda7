package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (requester_id, description, created_at) VALUES (?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, request.RequesterID, request.Description, now)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.CreatedAt = now
	return nil
}

func (db *DB) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, requester_id, description, created_at
              FROM requests WHERE requester_id = ? ORDER BY created_at DESC, id DESC`
	return db.queryRequests(ctx, query, requesterID)
}

func (db *DB) AllRequests(ctx context.Context) ([]*models.ItemRequest, error) {
	query := `SELECT id, requester_id, description, created_at
              FROM requests ORDER BY created_at DESC, id DESC`
	return db.queryRequests(ctx, query)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.ItemRequest, 0)
	for rows.Next() {
		r := &models.ItemRequest{}
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
