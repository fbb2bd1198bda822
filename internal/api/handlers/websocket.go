package handlers

import (
	"net/http"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	hub      *services.WebSocketHub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts upgrades from allowedOrigins. An empty list
// or "*" accepts every origin.
func NewWebSocketHandler(hub *services.WebSocketHub, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// HandleWebSocket upgrades HTTP connection to WebSocket. Clients choose
// topics by sending {"action":"subscribe","topics":[...]}.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	client := services.NewClient(h.hub, conn)

	welcome := gin.H{
		"type": "welcome",
		"data": gin.H{
			"client_id": client.ID,
			"topics":    []string{services.TopicSmashFeed, services.TopicInjuries, services.TopicSync},
		},
		"timestamp": time.Now().UTC(),
	}
	if err := conn.WriteJSON(welcome); err != nil {
		logrus.WithError(err).Warn("Failed to send welcome message")
		conn.Close()
		return
	}

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
