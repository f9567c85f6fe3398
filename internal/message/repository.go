package message

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for booking chat messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListByBooking(ctx context.Context, bookingID string, page, pageSize int) ([]*Message, int, error)
}

type pgxMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxMessageRepository{pool: pool}
}

func (r *pgxMessageRepository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO public.booking_messages (booking_id, sender_id, content, is_system)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, m.BookingID, m.SenderID, m.Content, m.IsSystem).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message failed: %w", err)
	}
	return nil
}

func (r *pgxMessageRepository) ListByBooking(ctx context.Context, bookingID string, page, pageSize int) ([]*Message, int, error) {
	query := `
		SELECT m.id, m.booking_id, m.sender_id, p.full_name, m.content, m.is_system, m.created_at,
			count(*) OVER() AS total_count
		FROM public.booking_messages m
		LEFT JOIN public.profiles p ON p.id = m.sender_id
		WHERE m.booking_id = $1
		ORDER BY m.created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, bookingID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query messages failed: %w", err)
	}
	defer rows.Close()

	var (
		messages []*Message
		total    int
	)
	for rows.Next() {
		var m Message
		err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.SenderName, &m.Content, &m.IsSystem, &m.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan message failed: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate messages failed: %w", err)
	}
	return messages, total, nil
}
