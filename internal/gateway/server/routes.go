package server

import (
	"net/http"

	"repocopilot/internal/gateway/handler"
	"repocopilot/internal/gateway/middleware"
)

func NewMux(chatHandler *handler.ChatHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", chatHandler.HandleRoot)
	mux.HandleFunc("/health", chatHandler.HandleHealth)
	mux.HandleFunc("/chat", chatHandler.HandleChat)
	mux.HandleFunc("/chat/ws", chatHandler.HandleChatWS)
	mux.HandleFunc("/repo/structure", chatHandler.HandleStructure)
	mux.HandleFunc("/session/state", chatHandler.HandleSessionState)

	// Middleware
	return middleware.CORS(mux)
}
