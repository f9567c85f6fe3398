package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, n *Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.notifications").
		Columns("user_id", "type", "data").
		Values(n.UserID, n.Type, data).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create notification query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt)
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*Notification, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "user_id", "type", "data", "is_read", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.notifications").
		Where(squirrel.Eq{"user_id": userID})

	if unreadOnly {
		query = query.Where(squirrel.Eq{"is_read": false})
	}

	query = query.OrderBy("created_at DESC")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query = query.Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list notifications query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications failed: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	var total int

	for rows.Next() {
		var n Notification
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &data, &n.IsRead, &n.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan notification failed: %w", err)
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &n.Data)
		}
		notifications = append(notifications, &n)
	}

	return notifications, total, nil
}

func (r *pgxRepository) MarkRead(ctx context.Context, id, userID string) error {
	const query = `
		UPDATE public.notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`
	ct, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, "UPDATE public.notifications SET is_read = true WHERE user_id = $1 AND is_read = false", userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read failed: %w", err)
	}
	return nil
}
