package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/wolfman30/dentfinder/pkg/logging"
	"golang.org/x/net/websocket"
)

// Handler streams a fresh Counter to each websocket client.
type Handler struct {
	seeds    []Seed
	interval time.Duration
	logger   *logging.Logger
}

// InboundMessage is what the page sends.
type InboundMessage struct {
	Type string `json:"type"` // "ping"
}

// OutboundMessage is what we send to the page.
type OutboundMessage struct {
	Type     string    `json:"type"` // "stats", "pong"
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// NewHandler creates a stats stream handler.
func NewHandler(seeds []Seed, interval time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if len(seeds) == 0 {
		seeds = DefaultSeeds
	}
	return &Handler{seeds: seeds, interval: interval, logger: logger}
}

// HandleWebSocket upgrades to WebSocket and streams counter snapshots until
// the client disconnects.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	counter := NewCounter(h.seeds, h.interval, nil)
	if err := counter.Start(ctx); err != nil {
		h.logger.Error("stats: start counter", "error", err)
		return
	}
	defer counter.Stop()

	initial := counter.Snapshot()
	if err := websocket.JSON.Send(conn, OutboundMessage{Type: "stats", Snapshot: &initial}); err != nil {
		return
	}

	pongs := make(chan struct{}, 1)
	go func() {
		defer cancel()
		for {
			var msg InboundMessage
			if err := websocket.JSON.Receive(conn, &msg); err != nil {
				h.logger.Debug("stats: connection closed", "error", err)
				return
			}
			if msg.Type == "ping" {
				select {
				case pongs <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pongs:
			if err := websocket.JSON.Send(conn, OutboundMessage{Type: "pong"}); err != nil {
				return
			}
		case snap := <-counter.Updates():
			if err := websocket.JSON.Send(conn, OutboundMessage{Type: "stats", Snapshot: &snap}); err != nil {
				return
			}
		}
	}
}
