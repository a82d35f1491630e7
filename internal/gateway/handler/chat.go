package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"repocopilot/internal/analysis"
	"repocopilot/internal/gateway/service/copilot"
)

// ChatHandler serves the JSON chat surface.
type ChatHandler struct {
	svc *copilot.Service
}

func NewChatHandler(svc *copilot.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, err := h.svc.HandleMessage(r.Context(), strings.TrimSpace(in.SessionID), message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, reply)
}

func (h *ChatHandler) HandleStructure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	structure, err := h.svc.Structure(sessionID)
	if err != nil {
		if errors.Is(err, analysis.ErrNothingLoaded) {
			http.Error(w, "no repository loaded for session", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"session_id": sessionID,
		"structure":  structure,
	})
}

func (h *ChatHandler) HandleSessionState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	state, ok := h.svc.SessionState(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, state)
}

func (h *ChatHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok"})
}

func (h *ChatHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"service": "repocopilot",
		"endpoints": []string{
			"POST /chat",
			"GET /chat/ws",
			"GET /repo/structure",
			"GET /session/state",
			"GET /health",
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
