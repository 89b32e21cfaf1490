package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin проверяется CORS-политикой на уровне роутера.
		return true
	},
}

type WebSocketHandler struct {
	responder
	hub              *realtime.Hub
	standingsService *services.StandingsService
}

func NewWebSocketHandler(hub *realtime.Hub, ss *services.StandingsService, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{responder: responder{logger: logger}, hub: hub, standingsService: ss}
}

// ServeWs подписывает клиента на комнату турнира.
// Клиент подключается к /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	// Турнир должен существовать до апгрейда соединения.
	table, err := h.standingsService.ComputeStandings(r.Context(), tournamentID, nil)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("tournament_id", tournamentID),
			slog.Any("error", err))
		return
	}

	client := &realtime.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: realtime.RoomForTournament(tournamentID),
	}
	// Текущая таблица уходит первым сообщением.
	if msg, err := json.Marshal(realtime.Message{Type: realtime.EventStandingsUpdated, Payload: table, RoomID: client.Room}); err == nil {
		client.Send <- msg
	}
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("websocket client registered",
		slog.Int("tournament_id", tournamentID),
		slog.String("room", client.Room))
}
