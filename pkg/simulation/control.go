package simulation

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ControlHub is the remote control surface for the speed. Clients exchange
// binary websocket frames holding a protobuf DoubleValue: they send the
// speed they want and receive every accepted speed.
type ControlHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	speed    float64
	apply    func(speed float64)
	logger   log.Logger
}

// NewControlHub creates a hub that starts at speed and calls apply with every
// accepted update. apply runs on the connection goroutine.
func NewControlHub(speed float64, apply func(speed float64), logger log.Logger) *ControlHub {
	return &ControlHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		speed:  speed,
		apply:  apply,
		logger: logger,
	}
}

// Speed returns the last accepted speed.
func (h *ControlHub) Speed() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.speed
}

// SetSpeed records a speed changed elsewhere (e.g. the window slider) and
// tells every client about it, without calling apply.
func (h *ControlHub) SetSpeed(speed float64) {
	h.mu.Lock()
	changed := h.speed != speed
	h.speed = speed
	h.mu.Unlock()
	if changed {
		h.broadcast(speed)
	}
}

func (h *ControlHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *ControlHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *ControlHub) broadcast(speed float64) {
	payload, err := proto.Marshal(wrapperspb.Double(speed))
	if err != nil {
		h.logger.Errorf("failed to marshal speed update: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			h.logger.Warnf("failed to write to control client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *ControlHub) accept(speed float64) {
	if err := swarm.ValidateSpeed(speed); err != nil {
		h.logger.Warnf("control client sent %v", err)
		// Resend the current value so the client can resync.
		h.broadcast(h.Speed())
		return
	}
	h.mu.Lock()
	h.speed = speed
	h.mu.Unlock()
	if h.apply != nil {
		h.apply(speed)
	}
	h.broadcast(speed)
}

// ServeHTTP upgrades the request and serves one control client.
func (h *ControlHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	h.add(conn)
	defer h.remove(conn)
	h.logger.Infof("control client connected from %s", r.RemoteAddr)

	// Send the current control state immediately.
	h.broadcast(h.Speed())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debugf("control stream closed: %v", err)
			return
		}

		var update wrapperspb.DoubleValue
		if err := proto.Unmarshal(data, &update); err != nil {
			h.logger.Warnf("unable to decode control update: %v", err)
			continue
		}
		h.accept(update.GetValue())
	}
}

// NewControlMux routes /ws/control to the hub.
func NewControlMux(hub *ControlHub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws/control", hub)
	return mux
}
