package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/tilt_streamer/internal/config"
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
	"github.com/relabs-tech/tilt_streamer/internal/wire"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// tiltHub fans incoming tilt samples out to connected websocket
// clients as wire lines.
type tiltHub struct {
	mu       sync.RWMutex
	lastTilt orientation.Tilt
	haveTilt bool
	clients  map[*websocket.Conn]struct{}
}

func (h *tiltHub) update(t orientation.Tilt) {
	h.mu.Lock()
	h.lastTilt = t
	h.haveTilt = true
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	line := []byte(wire.FormatLine(t))
	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, line); err != nil {
			h.drop(c)
		}
	}
}

func (h *tiltHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *tiltHub) drop(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

// RunWeb serves a small monitor: a JSON endpoint with the latest tilt
// and a websocket relaying the live wire lines.
func RunWeb() error {
	cfg := config.Get()
	hub := &tiltHub{clients: map[*websocket.Conn]struct{}{}}

	// 1) Connect to the MQTT broker and track the tilt stream
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicTilt, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var t orientation.Tilt
		if err := json.Unmarshal(msg.Payload(), &t); err != nil {
			log.Printf("web: tilt unmarshal error: %v", err)
			return
		}
		hub.update(t)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicTilt)

	// 2) JSON API endpoint: latest tilt
	http.HandleFunc("/api/tilt", func(w http.ResponseWriter, r *http.Request) {
		hub.mu.RLock()
		defer hub.mu.RUnlock()

		if !hub.haveTilt {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.lastTilt); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 3) Websocket: live wire lines
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		hub.add(conn)
		log.Printf("web: websocket client connected from %s", r.RemoteAddr)

		// Drain (and ignore) client messages until it disconnects.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.drop(conn)
					return
				}
			}
		}()
	})

	// 4) Static files from ./web as the root
	http.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
