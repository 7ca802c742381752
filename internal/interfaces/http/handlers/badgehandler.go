package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/goroutine"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/utils"
)

const maxBadgeReadSize = 512

var errClientGone = errors.New("badge client disconnected")

// BadgeOptions tunes the websocket connection. Zero values fall back to the defaults.
type BadgeOptions struct {
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	SendBuffer     int
	AllowedOrigins []string
}

func (o BadgeOptions) withDefaults() BadgeOptions {
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 4
	}
	return o
}

// BadgeHandler streams a user's unread badge over a websocket.
type BadgeHandler struct {
	streamer badgeStreamer
	gauge    connectionGauge
	opts     BadgeOptions
	upgrader websocket.Upgrader
	logger   logger.Interface
}

func NewBadgeHandler(streamer badgeStreamer, gauge connectionGauge, opts BadgeOptions, log logger.Interface) *BadgeHandler {
	opts = opts.withDefaults()
	h := &BadgeHandler{
		streamer: streamer,
		gauge:    gauge,
		opts:     opts,
		logger:   log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *BadgeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// BadgeWS godoc
// @Summary Unread badge stream
// @Description Websocket. Sends {"type":"badge","count":N} on connect and whenever an announcement is created.
// @Security Bearer
// @Tags announcements
// @Param token query string false "Access token when the Authorization header cannot be set"
// @Success 101 "Switching protocols"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /ws/announcements/badge [get]
func (h *BadgeHandler) BadgeWS(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("failed to upgrade to websocket",
			"error", err,
			"user_id", userID,
			"ip", c.ClientIP(),
		)
		return
	}

	if h.gauge != nil {
		h.gauge.ConnectionOpened()
		defer h.gauge.ConnectionClosed()
	}
	log := h.logger.With("user_id", userID)
	log.Infow("badge websocket connected", "ip", c.ClientIP())

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	send := make(chan BadgeMessage, h.opts.SendBuffer)
	var wg sync.WaitGroup

	wg.Add(2)
	goroutine.SafeGo(log, "badge-write-pump", func() {
		defer wg.Done()
		defer cancel()
		h.writePump(ctx, conn, send, log)
	})
	goroutine.SafeGo(log, "badge-stream", func() {
		defer wg.Done()
		defer cancel()
		if err := h.streamer.StreamBadge(ctx, userID, h.pushFunc(ctx, send)); err != nil {
			log.Warnw("badge stream ended", "error", err)
		}
	})

	h.readPump(conn, log)
	cancel()
	wg.Wait()

	log.Infow("badge websocket disconnected")
}

// pushFunc enqueues a badge frame. When the client lags, the oldest queued
// frame is dropped since only the latest count matters.
func (h *BadgeHandler) pushFunc(connCtx context.Context, send chan BadgeMessage) func(context.Context, int64) error {
	return func(ctx context.Context, count int64) error {
		msg := BadgeMessage{Type: badgeMessageType, Count: count}
		for {
			if connCtx.Err() != nil {
				return errClientGone
			}
			select {
			case send <- msg:
				return nil
			default:
			}
			select {
			case <-send:
			default:
			}
		}
	}
}

// readPump discards client frames; it keeps the read deadline fresh and
// notices when the client goes away.
func (h *BadgeHandler) readPump(conn *websocket.Conn, log logger.Interface) {
	defer conn.Close()

	conn.SetReadLimit(maxBadgeReadSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warnw("badge websocket read error", "error", err)
			}
			return
		}
	}
}

func (h *BadgeHandler) writePump(ctx context.Context, conn *websocket.Conn, send <-chan BadgeMessage, log logger.Interface) {
	ticker := time.NewTicker(h.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Warnw("failed to write badge", "error", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
