package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type ChatHandler struct {
	agent   interfaces.AgentService
	history interfaces.ChatService
	logger  logger.Logger
}

func NewChatHandler(agent interfaces.AgentService, history interfaces.ChatService, lgr logger.Logger) *ChatHandler {
	return &ChatHandler{
		agent:   agent,
		history: history,
		logger:  lgr,
	}
}

type ChatRequest struct {
	CustomerPhone string `json:"customer_phone"`
	Message       string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Respond runs one agent turn for the customer.
func (h *ChatHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	reply, err := h.agent.Respond(r.Context(), req.CustomerPhone, req.Message)
	if err != nil {
		h.logger.Error("agent_turn_failed", "Agent turn failed", RequestID(r.Context()), map[string]interface{}{
			"customer_phone": req.CustomerPhone,
		}, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	maxMessages := 0
	if raw := r.URL.Query().Get("max_messages"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: max_messages must be an integer", domain.ErrValidation))
			return
		}
		maxMessages = parsed
	}

	messages, err := h.history.GetHistory(r.Context(), phone, maxMessages)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	deleted, err := h.history.DeleteSession(r.Context(), phone)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, fmt.Errorf("%w: no chat session for %s", domain.ErrNotFound, phone))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
