package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type chatRepository struct {
	db DB
}

func NewChatRepository(db DB) interfaces.ChatRepository {
	return &chatRepository{db: db}
}

// GetHistory returns the stored history for the phone, truncated
// turn-safely to maxMessages. A missing session yields an empty
// history, not an error.
func (r *chatRepository) GetHistory(ctx context.Context, userPhone string, maxMessages int) ([]domain.Message, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT history FROM chat_sessions WHERE user_phone = $1`, userPhone,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chat session: %w", err)
	}

	var messages []domain.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("%w: corrupt history for %s: %v", domain.ErrIntegrity, userPhone, err)
	}

	return domain.TruncateHistory(messages, maxMessages), nil
}

// SaveConversation replaces the stored history wholesale. The caller
// passes prior history plus new turns concatenated; this is an
// overwrite, not an append.
func (r *chatRepository) SaveConversation(ctx context.Context, userPhone string, messages []domain.Message) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO chat_sessions (user_phone, history, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_phone)
		DO UPDATE SET history = EXCLUDED.history, updated_at = EXCLUDED.updated_at`,
		userPhone, raw, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

func (r *chatRepository) DeleteSession(ctx context.Context, userPhone string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM chat_sessions WHERE user_phone = $1`, userPhone)
	if err != nil {
		return false, fmt.Errorf("failed to delete chat session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
