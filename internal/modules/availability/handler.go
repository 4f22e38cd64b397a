package availability

import (
	"log"
	"net/http"

	"travelbooking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // configure in prod
}

type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{hub: hub, jwtService: jwtService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accommodations/:id/availability/ws", h.Subscribe)
}

// Subscribe upgrades the connection and streams availability events for one
// accommodation until the client disconnects.
//
// Endpoint: GET /accommodations/:id/availability/ws?token=JWT_TOKEN
// Auth goes through the query string since browsers cannot set headers on
// websocket handshakes.
func (h *Handler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}
	if _, err := h.jwtService.ValidateToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	accommodationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accommodation ID"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("availability: upgrade failed: %v", err)
		return
	}

	h.hub.Subscribe(accommodationID, conn)
	defer h.hub.Unsubscribe(accommodationID, conn)

	// Drain reads so close frames and pings are processed. Clients do not
	// send application messages on this stream.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
