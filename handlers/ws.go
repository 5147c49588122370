package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/cvsaves/cvsaves-api/middleware"
)

// WSHandler pushes refresh hints to a user's other browser sessions. The
// payload carries no data, only what changed; clients refetch through the
// normal CRUD endpoints, which keeps the store the single source of truth.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Ledger socket closed for user: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades an authenticated request to a ledger refresh socket.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)

	keys := map[string]any{"user_id": userID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// NotifyUser broadcasts a refresh hint to every socket the user holds.
func (h *WSHandler) NotifyUser(userID string, updateType string) {
	msg := []byte(`{"type": "` + updateType + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		sessionUser, ok := q.Get("user_id")
		return ok && sessionUser == userID
	})
	if err != nil {
		log.Printf("❌ Broadcast failed: %v", err)
	}
}
