package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Табло только читают; Origin не проверяем.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{hub: hub, logger: logger}
}

// IsRoom reports whether spectators can subscribe to the room.
func IsRoom(room string) bool {
	if room == models.SurvivalTournamentID {
		return true
	}
	return models.Competition(room).Valid()
}

// ServeWs подписывает зрителя на комнату /ws/{room}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")
	if !IsRoom(room) {
		notFoundResponse(w, r, fmt.Errorf("unknown room %q", room))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту.
		h.logger.Warn("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: room,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("spectator connected", slog.String("room", room))
}
