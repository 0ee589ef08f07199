package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/safetrack-dev/safetrack/internal/types"
)

var (
	siteClients   = make(map[string]map[*websocket.Conn]bool)
	siteClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastIncidentCreated notifies staff dashboards watching a site that a
// new incident arrived. Failures only drop the affected connection.
func BroadcastIncidentCreated(siteID, incidentID string) {
	siteClientsMu.RLock()
	clients, exists := siteClients[siteID]
	if !exists || len(clients) == 0 {
		siteClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	siteClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":        "incident_created",
			"site_id":     siteID,
			"incident_id": incidentID,
		})

		if err != nil {
			log.Printf("Failed to broadcast incident to client: %v", err)
			siteClientsMu.Lock()
			if clients, exists := siteClients[siteID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(siteClients, siteID)
				}
			}
			siteClientsMu.Unlock()
			conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	siteID := c.Param("site_id")

	if siteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Site ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	siteClientsMu.Lock()
	if siteClients[siteID] == nil {
		siteClients[siteID] = make(map[*websocket.Conn]bool)
	}
	siteClients[siteID][conn] = true
	siteClientsMu.Unlock()

	defer func() {
		siteClientsMu.Lock()

		if clients, exists := siteClients[siteID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(siteClients, siteID)
			}
		}

		siteClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for site %s", siteID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
		"site_id": siteID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	done := make(chan struct{})
	defer close(done)

	go pingLoop(conn, siteID, done)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for site %s: %v", siteID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for site %s: %v", siteID, err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client for site %s: %s", siteID, string(message))
		case websocket.PongMessage:
			log.Printf("Received pong from site %s", siteID)
		}
	}
}

// pingLoop keeps the connection alive until done closes. Stopping the ticker
// never closes its channel, so done is the only exit once the reader is gone.
func pingLoop(conn *websocket.Conn, siteID string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for site %s: %v", siteID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for site %s: %v", siteID, err)
				return
			}
		}
	}
}
