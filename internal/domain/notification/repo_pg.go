package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type notifRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &notifRepoPG{pool: pool} }

const notifCols = `id, user_id, title, body, kind, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Kind, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &n, err
}

func (r *notifRepoPG) Create(ctx context.Context, n *Notification) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, body, kind)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		n.UserID, n.Title, n.Body, n.Kind).Scan(&n.ID, &n.CreatedAt)
}

func (r *notifRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notifCols+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *notifRepoPG) GetByID(ctx context.Context, id int64) (*Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx,
		`SELECT `+notifCols+` FROM notifications WHERE id = $1`, id))
}
