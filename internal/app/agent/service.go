package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/app/chat"
	"github.com/casalinda/pedidos/internal/config"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

// semanticTopK is how many semantic matches the prompt carries.
const semanticTopK = 5

// LLMClient is the model surface the agent depends on.
type LLMClient interface {
	CreateMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// Service orchestrates one conversational turn: load history, gather
// catalog and semantic context, run the model with the create_order
// tool, persist the transcript.
type Service struct {
	products interfaces.ProductService
	orders   interfaces.OrderService
	chats    interfaces.ChatService
	embedder interfaces.Embedder
	llm      LLMClient
	cfg      config.AgentConfig
	location *time.Location
	logger   logger.Logger

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

func NewService(
	products interfaces.ProductService,
	orders interfaces.OrderService,
	chats interfaces.ChatService,
	embedder interfaces.Embedder,
	llm LLMClient,
	cfg config.AgentConfig,
	location *time.Location,
	lgr logger.Logger,
) *Service {
	return &Service{
		products: products,
		orders:   orders,
		chats:    chats,
		embedder: embedder,
		llm:      llm,
		cfg:      cfg,
		location: location,
		logger:   lgr,
		sessions: make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one phone.
// Concurrent turns for the same customer would race on the stored
// history, which is replaced wholesale.
func (s *Service) sessionLock(customerPhone string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.sessions[customerPhone]
	if !ok {
		lock = &sync.Mutex{}
		s.sessions[customerPhone] = lock
	}
	return lock
}

// Respond runs one full agent turn and returns the assistant's reply.
func (s *Service) Respond(ctx context.Context, customerPhone, message string) (string, error) {
	if customerPhone == "" {
		return "", fmt.Errorf("%w: customer phone must not be empty", domain.ErrValidation)
	}
	if message == "" {
		return "", fmt.Errorf("%w: message must not be empty", domain.ErrValidation)
	}

	lock := s.sessionLock(customerPhone)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.chats.GetHistory(ctx, customerPhone, chat.MaxHistoryMessages)
	if err != nil {
		return "", err
	}

	catalog, err := s.products.GetAllProducts(ctx, true)
	if err != nil {
		return "", err
	}

	related, err := s.semanticContext(ctx, message)
	if err != nil {
		return "", err
	}

	systemPrompt, err := buildSystemPrompt(s.cfg.Name, customerPhone, message, time.Now().In(s.location), catalog, related)
	if err != nil {
		return "", err
	}

	messages := historyToMessages(history)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(message)))

	reply, toolEntries, err := s.runModel(ctx, customerPhone, systemPrompt, messages)
	if err != nil {
		return "", err
	}

	transcript := append(history, domain.Message{Role: domain.RoleUser, Content: message})
	transcript = append(transcript, toolEntries...)
	transcript = append(transcript, domain.Message{Role: domain.RoleAssistant, Content: reply})

	// The stored transcript keeps every turn; the read path applies the
	// history cap.
	if err := s.chats.SaveConversation(ctx, customerPhone, transcript); err != nil {
		return "", err
	}

	return reply, nil
}

// semanticContext embeds the incoming message and fetches the closest
// products for the prompt.
func (s *Service) semanticContext(ctx context.Context, message string) ([]domain.ProductSearchResult, error) {
	embedding, err := s.embedder.EmbedText(ctx, message)
	if err != nil {
		return nil, err
	}
	return s.products.SemanticSearch(ctx, embedding, semanticTopK, true)
}

// runModel drives the tool-use loop. Tool failures are fed back to the
// model as error results so it can apologize or retry; only provider
// failures abort the turn.
func (s *Service) runModel(ctx context.Context, customerPhone, systemPrompt string, messages []anthropic.MessageParam) (string, []domain.Message, error) {
	tools := []anthropic.ToolUnionParam{createOrderTool()}
	var toolEntries []domain.Message

	for round := 0; ; round++ {
		if round >= s.cfg.MaxToolRounds {
			return "", nil, fmt.Errorf("%w: agent exceeded %d tool rounds", domain.ErrExternalService, s.cfg.MaxToolRounds)
		}

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(s.cfg.Model),
			MaxTokens: int64(s.cfg.MaxTokens),
			Messages:  messages,
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
			Tools: tools,
		}

		resp, err := s.llm.CreateMessage(ctx, params)
		if err != nil {
			return "", nil, err
		}

		var text string
		var toolResults []anthropic.ContentBlockParamUnion

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text += block.Text

			case "tool_use":
				entry, result := s.executeTool(ctx, customerPhone, block.Name, block.ID, block.Input)
				toolEntries = append(toolEntries, entry)
				toolResults = append(toolResults, result)
			}
		}

		if len(toolResults) == 0 {
			if text == "" {
				return "", nil, fmt.Errorf("%w: model returned an empty reply", domain.ErrExternalService)
			}
			return text, toolEntries, nil
		}

		messages = append(messages, resp.ToParam())
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}
}

// executeTool runs one tool_use block and returns both the transcript
// entry and the result block sent back to the model.
func (s *Service) executeTool(ctx context.Context, customerPhone, name, blockID string, input json.RawMessage) (domain.Message, anthropic.ContentBlockParamUnion) {
	entry := domain.Message{
		Role:      domain.RoleTool,
		ToolName:  name,
		ToolInput: input,
	}

	if name != createOrderToolName {
		msg := fmt.Sprintf("unknown tool: %s", name)
		entry.ToolResult = msg
		return entry, anthropic.NewToolResultBlock(blockID, msg, true)
	}

	cmd, err := parseCreateOrderInput(input, customerPhone)
	if err != nil {
		entry.ToolResult = err.Error()
		return entry, anthropic.NewToolResultBlock(blockID, err.Error(), true)
	}

	detail, err := s.orders.CreateOrder(ctx, cmd)
	if err != nil {
		s.logger.Warn("agent_tool_failed", "create_order tool failed", "", map[string]interface{}{
			"customer_phone": customerPhone,
			"error":          err.Error(),
		})
		entry.ToolResult = err.Error()
		return entry, anthropic.NewToolResultBlock(blockID, err.Error(), true)
	}

	payload, err := json.Marshal(detail)
	if err != nil {
		entry.ToolResult = err.Error()
		return entry, anthropic.NewToolResultBlock(blockID, err.Error(), true)
	}

	s.logger.Info("agent_order_created", "Agent created order", "", map[string]interface{}{
		"customer_phone": customerPhone,
		"order_code":     detail.OrderCode,
	})

	entry.ToolResult = string(payload)
	return entry, anthropic.NewToolResultBlock(blockID, string(payload), false)
}

// historyToMessages rebuilds the model conversation from the stored
// transcript. Tool entries are replayed as plain text; raw tool_use
// blocks from past turns would reference result IDs the API no longer
// accepts.
func historyToMessages(history []domain.Message) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case domain.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case domain.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case domain.RoleTool:
			summary := fmt.Sprintf("[Se ejecutó la herramienta %s con entrada %s. Resultado: %s]", msg.ToolName, string(msg.ToolInput), msg.ToolResult)
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(summary)))
		}
	}
	return messages
}

var _ interfaces.AgentService = (*Service)(nil)
