package game

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ai-jeopardy/internal/server"
	httperrors "github.com/gokatarajesh/ai-jeopardy/pkg/http/errors"
	"github.com/gokatarajesh/ai-jeopardy/pkg/http/ws"
)

// WSHandler streams generation progress of a game to WebSocket clients.
type WSHandler struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewWSHandler creates a game WebSocket handler.
func NewWSHandler(service *Service, hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		logger:  logger.With().Str("component", "game_ws").Logger(),
	}
}

// HandleWebSocket handles GET /ws/games/{id}
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if _, err := h.service.Get(r.Context(), gameID); err != nil {
		if errors.Is(err, ErrGameNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeGameNotFound, "Game not found")
			return
		}
		h.logger.Error().Err(err).Str("game_id", gameID).Msg("load game for websocket")
		httperrors.RespondInternalError(w, "Internal server error")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.HandleConnection(conn, gameID)
}

// HandleConnection follows gameID until the peer disconnects.
func (h *WSHandler) HandleConnection(conn *websocket.Conn, gameID string) {
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.Subscribe(gameID, wsConn)

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(wsConn, msg)
	})

	h.hub.Unsubscribe(wsConn.ID)
}

func (h *WSHandler) handleMessage(conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		reply := ws.Message{Type: ws.TypePong, Payload: []byte(`{}`), RequestID: msg.RequestID}
		return conn.Send(reply)
	default:
		errMsg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
			Code:    httperrors.ErrCodeUnknownMessageType,
			Message: fmt.Sprintf("Unknown message type: %s", msg.Type),
		})
		if err != nil {
			return err
		}
		errMsg.RequestID = msg.RequestID
		return conn.Send(errMsg)
	}
}
