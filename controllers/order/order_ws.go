package orderControllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/theilkerm/pf-se-cs/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

type orderEvent struct {
	Event string        `json:"event"`
	Order *models.Order `json:"order"`
}

// GET /orders/ws (admin)
//
// Streams order lifecycle events (created, status changed) to connected
// dashboard clients.
func OrderEventsHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() {
		wsMu.Lock()
		delete(wsClients, conn)
		wsMu.Unlock()
		conn.Close()
	}()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	// Drain until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func broadcastOrderEvent(event string, order *models.Order) {
	wsMu.Lock()
	defer wsMu.Unlock()

	for conn := range wsClients {
		if err := conn.WriteJSON(orderEvent{Event: event, Order: order}); err != nil {
			log.Warn().Err(err).Msg("dropping stale order events client")
			conn.Close()
			delete(wsClients, conn)
		}
	}
}
