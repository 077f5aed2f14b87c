package notification

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"opsdeck/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// Origin filtering happens in the CORS middleware; the websocket
	// endpoint accepts whatever made it through.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	presenter *Presenter
	hub       *Hub
	logger    *zap.Logger
}

func NewHandler(presenter *Presenter, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		presenter: presenter,
		hub:       hub,
		logger:    logger,
	}
}

// GetCurrent handles GET /api/v1/notifications/current
func (h *Handler) GetCurrent(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"notification": h.presenter.Current(),
	})
}

// Dismiss handles DELETE /api/v1/notifications/current
func (h *Handler) Dismiss(c *gin.Context) {
	h.presenter.Dismiss()
	response.Success(c, http.StatusOK, gin.H{"dismissed": true})
}

// HandleWebSocket handles GET /ws/notifications
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.New().String()
	h.hub.Register(clientID, conn)
	h.logger.Debug("dashboard client connected", zap.String("client_id", clientID))

	defer func() {
		h.hub.Unregister(clientID)
		h.logger.Debug("dashboard client disconnected", zap.String("client_id", clientID))
	}()

	// Late joiners see the toast that is currently up.
	if current := h.presenter.Current(); current != nil {
		_ = conn.WriteJSON(map[string]interface{}{
			"type":    "notification",
			"payload": current,
		})
	}

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go pingLoop(conn)

	// The channel is broadcast-only; client frames are drained and ignored
	// until the connection goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error",
					zap.String("client_id", clientID),
					zap.Error(err))
			}
			return
		}
	}
}

func pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}
