package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"rocketintel-sim/internal/analysis"

	"github.com/gorilla/websocket"
)

// Handler upgrades requests to WebSocket streams. Clients may subscribe to
// one vehicle with ?vehicle=<id> and may send telemetry envelopes to be
// analysed; the reply is an ai_analysis envelope on the same socket.
type Handler struct {
	hub      *Hub
	analyzer analysis.Analyzer
	log      *slog.Logger
	upgrader websocket.Upgrader
	timeout  time.Duration
}

// NewHandler creates a stream handler. analyzer may be nil to ignore
// inbound telemetry.
func NewHandler(hub *Hub, analyzer analysis.Analyzer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:      hub,
		analyzer: analyzer,
		log:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		timeout: 30 * time.Second,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	vehicleID := req.URL.Query().Get("vehicle")
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "err", err)
		return
	}
	client := NewClient(conn, h.log)
	h.hub.Register(vehicleID, client)
	h.log.Info("stream client connected", "vehicle", vehicleID)
	go func() {
		defer func() {
			h.hub.Unregister(vehicleID, client)
			client.Close()
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.handleMessage(client, data)
		}
	}()
}

func (h *Handler) handleMessage(client *Client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.log.Warn("invalid stream message", "err", err)
		return
	}
	if env.Type != TypeTelemetry || env.Telemetry == nil || h.analyzer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	res, err := h.analyzer.Analyze(ctx, *env.Telemetry)
	if err != nil {
		h.log.Error("stream analysis failed", "err", err)
		return
	}
	frame, err := AnalysisFrame(env.Telemetry.VehicleID, res)
	if err != nil {
		return
	}
	_ = client.Send(frame)
}
