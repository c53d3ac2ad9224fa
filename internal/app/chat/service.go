package chat

import (
	"context"
	"fmt"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

// MaxHistoryMessages caps how many conversation entries are kept per
// session.
const MaxHistoryMessages = 20

type Service struct {
	repo   interfaces.ChatRepository
	logger logger.Logger
}

func NewService(repo interfaces.ChatRepository, lgr logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: lgr,
	}
}

// GetHistory returns the stored conversation for the phone, truncated
// so it never exceeds maxMessages and always starts with a user entry.
// Unknown phones yield an empty history.
func (s *Service) GetHistory(ctx context.Context, userPhone string, maxMessages int) ([]domain.Message, error) {
	if userPhone == "" {
		return nil, fmt.Errorf("%w: user phone must not be empty", domain.ErrValidation)
	}
	if maxMessages <= 0 || maxMessages > MaxHistoryMessages {
		maxMessages = MaxHistoryMessages
	}
	return s.repo.GetHistory(ctx, userPhone, maxMessages)
}

// SaveConversation replaces the stored history for the phone wholesale.
func (s *Service) SaveConversation(ctx context.Context, userPhone string, messages []domain.Message) error {
	if userPhone == "" {
		return fmt.Errorf("%w: user phone must not be empty", domain.ErrValidation)
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w: conversation must contain at least one message", domain.ErrValidation)
	}
	for _, m := range messages {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant && m.Role != domain.RoleTool {
			return fmt.Errorf("%w: unknown message role %q", domain.ErrValidation, m.Role)
		}
	}
	return s.repo.SaveConversation(ctx, userPhone, messages)
}

func (s *Service) DeleteSession(ctx context.Context, userPhone string) (bool, error) {
	if userPhone == "" {
		return false, fmt.Errorf("%w: user phone must not be empty", domain.ErrValidation)
	}

	deleted, err := s.repo.DeleteSession(ctx, userPhone)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("chat_session_deleted", "Chat session deleted", "", map[string]interface{}{
			"user_phone": userPhone,
		})
	}
	return deleted, nil
}

var _ interfaces.ChatService = (*Service)(nil)
