package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
)

type fakeChatRepo struct {
	sessions map[string][]domain.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{sessions: make(map[string][]domain.Message)}
}

func (r *fakeChatRepo) GetHistory(_ context.Context, userPhone string, maxMessages int) ([]domain.Message, error) {
	return domain.TruncateHistory(r.sessions[userPhone], maxMessages), nil
}

func (r *fakeChatRepo) SaveConversation(_ context.Context, userPhone string, messages []domain.Message) error {
	r.sessions[userPhone] = messages
	return nil
}

func (r *fakeChatRepo) DeleteSession(_ context.Context, userPhone string) (bool, error) {
	if _, ok := r.sessions[userPhone]; !ok {
		return false, nil
	}
	delete(r.sessions, userPhone)
	return true, nil
}

func TestSaveAndGetHistoryRoundTrip(t *testing.T) {
	svc := NewService(newFakeChatRepo(), logger.New("test"))

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "hola"},
		{Role: domain.RoleAssistant, Content: "¡Hola! ¿En qué te puedo ayudar?"},
	}

	require.NoError(t, svc.SaveConversation(context.Background(), "+56911111111", history))

	got, err := svc.GetHistory(context.Background(), "+56911111111", 10)
	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestGetHistoryUnknownPhone(t *testing.T) {
	svc := NewService(newFakeChatRepo(), logger.New("test"))

	got, err := svc.GetHistory(context.Background(), "+56900000000", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetHistoryCapsMax(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewService(repo, logger.New("test"))

	var history []domain.Message
	for i := 0; i < 30; i++ {
		history = append(history,
			domain.Message{Role: domain.RoleUser, Content: "pregunta"},
			domain.Message{Role: domain.RoleAssistant, Content: "respuesta"},
		)
	}
	repo.sessions["+56911111111"] = history

	got, err := svc.GetHistory(context.Background(), "+56911111111", 100)
	require.NoError(t, err)
	assert.Len(t, got, MaxHistoryMessages)
	assert.Equal(t, domain.RoleUser, got[0].Role)
}

func TestSaveConversationValidation(t *testing.T) {
	svc := NewService(newFakeChatRepo(), logger.New("test"))

	err := svc.SaveConversation(context.Background(), "", []domain.Message{{Role: domain.RoleUser, Content: "hola"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.SaveConversation(context.Background(), "+56911111111", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.SaveConversation(context.Background(), "+56911111111", []domain.Message{{Role: "system", Content: "hola"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteSession(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewService(repo, logger.New("test"))

	repo.sessions["+56911111111"] = []domain.Message{{Role: domain.RoleUser, Content: "hola"}}

	deleted, err := svc.DeleteSession(context.Background(), "+56911111111")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteSession(context.Background(), "+56911111111")
	require.NoError(t, err)
	assert.False(t, deleted)
}
