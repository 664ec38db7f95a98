package handlers

import (
	"log"
	"net/http"

	"github.com/01moynul/resellerhub-golang/internal/auth"
	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The cookie token already authenticates the socket; cross-origin
	// dashboards are allowed the same way the CORS layer allows them.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS is the handler for GET /ws. Runs after AuthMiddleware, so the
// caller's identity decides the room: admins share one room, each reseller
// gets their own.
func (h *Handlers) ServeWS(c *gin.Context) {
	role, _ := c.Get("userRole")

	room := realtime.AdminRoom
	if role == auth.RoleReseller {
		room = realtime.ResellerRoom(currentUserID(c))
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.Hub.Join(room, conn)
}
