package handlers

import (
	"context"
	"fmt"
	"gpttransit/internal/storage"
	"gpttransit/pkg"
	"gpttransit/src/logger"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const agentErrorReply = "I encountered an error: %v\nPlease try again or rephrase your question."

// Agent answers questions per session.
type Agent interface {
	Invoke(ctx context.Context, sessionID, input string) (string, error)
	ClearMemory(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string) ([]*schema.Message, error)
}

type ChatHandlers struct {
	Agent    Agent
	Store    storage.Store
	validate *validator.Validate
}

func NewChatHandlers(agent Agent, store storage.Store) *ChatHandlers {
	if store == nil {
		store = storage.NopStore{}
	}
	return &ChatHandlers{Agent: agent, Store: store, validate: validator.New()}
}

func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req pkg.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "message_required"})
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.Agent.Invoke(r.Context(), req.SessionID, req.Message)
	if err != nil {
		logger.Error().Err(err).Str("session_id", req.SessionID).Msg("Chat failed")
		reply = fmt.Sprintf(agentErrorReply, err)
	}
	writeJSON(w, http.StatusOK, pkg.ChatResponse{SessionID: req.SessionID, Reply: reply})
}

// ListMessages returns the session memory, or the stored transcript with
// ?transcript=true.
func (h *ChatHandlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "session_id_required"})
		return
	}

	if transcript, _ := strconv.ParseBool(r.URL.Query().Get("transcript")); transcript {
		limit := 0
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		msgs, err := h.Store.ListMessages(r.Context(), id, limit)
		if err != nil {
			logger.Error().Err(err).Str("session_id", id).Msg("Transcript read failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "list_messages_failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "data": msgs})
		return
	}

	history, err := h.Agent.History(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("session_id", id).Msg("History read failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "list_messages_failed"})
		return
	}
	msgs := make([]pkg.ConversationMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, pkg.ConversationMessage{Role: string(m.Role), Content: m.Content})
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "data": msgs})
}

func (h *ChatHandlers) ClearSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "session_id_required"})
		return
	}
	if err := h.Agent.ClearMemory(r.Context(), id); err != nil {
		logger.Error().Err(err).Str("session_id", id).Msg("Clear memory failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "clear_failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandlers) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb pkg.Feedback
	if err := decodeJSON(r, &fb); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}
	if err := h.validate.Struct(fb); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_feedback", "message": err.Error()})
		return
	}
	if err := h.Store.RecordFeedback(r.Context(), fb); err != nil {
		logger.Error().Err(err).Str("session_id", fb.SessionID).Msg("Feedback write failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "feedback_failed"})
		return
	}
	logger.Info().Str("session_id", fb.SessionID).Int("index", fb.Index).Bool("liked", fb.Liked).Msg("Feedback recorded")
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "recorded"})
}
