package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"renovatrack/internal/model"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateSession(ctx context.Context, s *model.ChatSession) error {
	query := `
        INSERT INTO chat_sessions (visitor_name, created_at)
        VALUES ($1, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query, s.VisitorName).Scan(&s.ID, &s.CreatedAt))
}

func (r *ChatRepository) FindSession(ctx context.Context, id int64) (*model.ChatSession, error) {
	query := `SELECT id, visitor_name, created_at FROM chat_sessions WHERE id = $1`
	var s model.ChatSession
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.VisitorName, &s.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *ChatRepository) InsertMessage(ctx context.Context, m *model.ChatMessage) error {
	query := `
        INSERT INTO chat_messages (session_id, sender, body, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query, m.SessionID, m.Sender, m.Body).Scan(&m.ID, &m.CreatedAt))
}

func (r *ChatRepository) ListMessages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error) {
	query := `
        SELECT id, session_id, sender, body, created_at
        FROM chat_messages
        WHERE session_id = $1
        ORDER BY created_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
