package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Monmon-1020/CampusFlow/api/models"
	"github.com/Monmon-1020/CampusFlow/brainstorm"
	"github.com/Monmon-1020/CampusFlow/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the school frontend's origin; the upstream
	// gateway is the trust boundary, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// connect godoc
// @Summary Open the live event stream for a session
// @Description Upgrades to a websocket after validating the connect token; delivers every broadcast event as tagged JSON
// @Tags brainstorm
// @Param id path string true "Session ID"
// @Param token query string true "Connect token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} models.ErrorResponse "Invalid connect token"
// @Failure 404 {object} models.ErrorResponse "Unknown or expired session"
// @Router /api/brainstorm/sessions/{id}/ws [get]
func (c *BrainstormController) connect(g *gin.Context) {
	sessionID := g.Param("id")

	userID, err := c.tokens.Validate(g.Query("token"))
	if err != nil {
		logging.Log.Warnf("WS: rejected connection to session %s: %v", sessionID, err)
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: "invalid connect token"})
		return
	}

	if _, err := c.service.Phase(g.Request.Context(), sessionID); err != nil {
		if errors.Is(err, brainstorm.ErrSessionNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "session not found"})
			return
		}
		writeEngineError(g, err)
		return
	}

	conn, err := upgrader.Upgrade(g.Writer, g.Request, nil)
	if err != nil {
		logging.Log.Errorf("WS: upgrade failed for session %s: %v", sessionID, err)
		return
	}

	c.hub.Register(sessionID, userID, conn)
	defer func() {
		c.hub.Unregister(sessionID, userID, conn)
		_ = conn.Close()
	}()

	// Drain inbound frames for liveness only; the server pushes, clients
	// listen. The read loop ends when the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Log.Warnf("WS: connection to session %s dropped: %v", sessionID, err)
			}
			return
		}
	}
}
