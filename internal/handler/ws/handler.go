// Package ws serves checks over a WebSocket connection, one verdict frame per query frame.
package ws

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	checkHandler "github.com/zhouzirui/misinfo-check/backend/internal/handler/check"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

type errorFrame struct {
	Error string `json:"error"`
}

// Handler upgrades /ws/check connections.
type Handler struct {
	checker  checkHandler.Checker
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a WebSocket check handler.
func New(checker checkHandler.Checker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		checker: checker,
		logger:  logger.With("component", "ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/check", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With("conn_id", connID)
	logger.Info("connection opened")
	defer logger.Info("connection closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	for {
		// Checks can outlast the deadline, so it is renewed before every read.
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read error", "error", err)
			}
			return
		}

		text, err := checkHandler.DecodeText(bytes.NewReader(data))
		if err != nil {
			logger.Error("decode check frame", "error", err)
			if !h.write(conn, logger, errorFrame{Error: checkHandler.ErrorMessage(err)}) {
				return
			}
			continue
		}

		if !h.write(conn, logger, h.check(ctx, text)) {
			return
		}
	}
}

func (h *Handler) check(ctx context.Context, text string) any {
	res, err := h.checker.Check(ctx, text)
	if err != nil {
		return errorFrame{Error: checkHandler.ErrorMessage(err)}
	}
	return res.Verdict
}

func (h *Handler) write(conn *websocket.Conn, logger *slog.Logger, frame any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		logger.Warn("write failed", "error", err)
		return false
	}
	return true
}

// pingLoop uses WriteControl, which may run concurrently with WriteJSON.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
