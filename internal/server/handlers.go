package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/Tyrowin/roomcast/internal/heartbeat"
	"github.com/Tyrowin/roomcast/internal/hub"
	"github.com/Tyrowin/roomcast/internal/room"
	"github.com/Tyrowin/roomcast/internal/weather"
)

const (
	serviceName    = "RoomCast WebSocket Server"
	serviceVersion = "1.0.0"

	// APISender is the sender id of messages posted through the HTTP API.
	APISender = "SERVER_API"

	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// Handlers serves the HTTP and websocket endpoints.
type Handlers struct {
	ctx       context.Context
	cfg       *Config
	engine    *hub.Engine
	validator hub.Validator
	heartbeat *heartbeat.Ticker
	robots    weather.Fleet
	origins   *originPolicy
	upgrader  websocket.Upgrader
	startedAt time.Time
	log       *slog.Logger
}

// NewHandlers creates the endpoint handlers. Websocket sessions run until ctx
// is cancelled or their transport fails.
func NewHandlers(ctx context.Context, cfg *Config, engine *hub.Engine, validator hub.Validator,
	ticker *heartbeat.Ticker, robots weather.Fleet, log *slog.Logger,
) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	origins := newOriginPolicy(cfg.Origins(), log)
	return &Handlers{
		ctx:       ctx,
		cfg:       cfg,
		engine:    engine,
		validator: validator,
		heartbeat: ticker,
		robots:    robots,
		origins:   origins,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.checkOrigin,
		},
		startedAt: time.Now(),
		log:       log,
	}
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Root summarizes the service.
func (h *Handlers) Root(c *gin.Context) {
	rooms := h.engine.Rooms()
	c.JSON(http.StatusOK, gin.H{
		"message":           serviceName,
		"version":           serviceVersion,
		"active_rooms":      len(rooms.RoomIDs()),
		"total_connections": rooms.TotalConnections(),
	})
}

// Health is a plain text liveness check.
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "RoomCast server is running!")
}

// Status reports configuration, totals and per-room statistics.
func (h *Handlers) Status(c *gin.Context) {
	rooms := h.engine.Rooms()
	snapshot := rooms.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"server_info": gin.H{
			"name":           serviceName,
			"version":        serviceVersion,
			"started_at":     h.startedAt,
			"uptime_seconds": time.Since(h.startedAt).Seconds(),
		},
		"configuration": gin.H{
			"max_messages_per_room":      rooms.HistoryCapacity(),
			"max_connections_per_room":   h.cfg.MaxConnectionsPerRoom,
			"heartbeat_interval_seconds": h.cfg.HeartbeatInterval.Seconds(),
			"heartbeat_room":             h.heartbeat.RoomID(),
			"heartbeat_state":            h.heartbeat.State().String(),
			"robots_enabled":             h.cfg.EnableRobots,
			"active_robots":              h.robots.Running(),
		},
		"summary": gin.H{
			"total_rooms":       len(snapshot),
			"total_connections": lo.SumBy(lo.Values(snapshot), func(s room.Stats) int { return s.ActiveConnections }),
			"total_messages":    lo.SumBy(lo.Values(snapshot), func(s room.Stats) int { return s.TotalMessages }),
		},
		"rooms": snapshot,
	})
}

// Rooms lists every active room.
func (h *Handlers) Rooms(c *gin.Context) {
	rooms := h.engine.Rooms()
	snapshot := rooms.Snapshot()
	stats := lo.Map(rooms.RoomIDs(), func(id string, _ int) room.Stats { return snapshot[id] })
	// a room may vanish between the two reads
	stats = lo.Filter(stats, func(s room.Stats, _ int) bool { return s.RoomID != "" })
	c.JSON(http.StatusOK, gin.H{"total_rooms": len(stats), "rooms": stats})
}

// RoomConnections lists the connections of one room.
func (h *Handlers) RoomConnections(c *gin.Context) {
	roomID := c.Param("room_id")
	conns, err := h.engine.Rooms().Connections(roomID)
	if err != nil {
		abortError(c, http.StatusNotFound, "Room not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":           roomID,
		"connections":       conns,
		"total_connections": len(conns),
	})
}

// Messages returns the latest messages of a room in chronological order.
func (h *Handlers) Messages(c *gin.Context) {
	roomID := c.Param("room_id")
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			abortError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	r, ok := h.engine.Rooms().Room(roomID)
	if !ok {
		abortError(c, http.StatusNotFound, "Room not found")
		return
	}
	msgs := r.Messages(limit)
	c.JSON(http.StatusOK, gin.H{
		"room_id":    roomID,
		"messages":   msgs,
		"total":      len(msgs),
		"room_stats": r.Stats(),
	})
}

// Broadcast posts a system message into an existing room.
func (h *Handlers) Broadcast(c *gin.Context) {
	roomID := c.Param("room_id")
	if !h.validator.ValidateToken(c.Query("token")) {
		abortError(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	message := c.Query("message")
	if message == "" {
		abortError(c, http.StatusBadRequest, "message is required")
		return
	}

	n, err := h.engine.InjectMessage(roomID, message, APISender, room.KindSystem)
	if err != nil {
		h.respondInjectError(c, err)
		return
	}
	h.log.Info("Message broadcast via API", "room", roomID, "recipients", n)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Message broadcast",
		"room_id":    roomID,
		"recipients": n,
	})
}

// Heartbeat sends a custom heartbeat pulse into an existing room.
func (h *Handlers) Heartbeat(c *gin.Context) {
	roomID := c.Param("room_id")
	if !h.validator.ValidateToken(c.Query("token")) {
		abortError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	n, err := h.heartbeat.Pulse(roomID, c.Query("message"))
	if err != nil {
		h.respondInjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Heartbeat sent",
		"room_id":    roomID,
		"recipients": n,
	})
}

func (h *Handlers) respondInjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		abortError(c, http.StatusNotFound, "Room not found")
	case errors.Is(err, hub.ErrInvalidKind):
		abortError(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("Injection failed", "err", err)
		abortError(c, http.StatusInternalServerError, "Internal error")
	}
}

// WebSocket upgrades the request and runs the client's session until it ends.
// Rejected admissions are told why through the close frame.
func (h *Handlers) WebSocket(c *gin.Context) {
	roomID := c.Param("room_id")
	clientID := c.Query("client_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "room", roomID, "client", clientID, "err", err)
		return
	}
	t := newWSTransport(conn, h.cfg.MaxMessageSize, h.log)

	session, err := h.engine.Admit(roomID, clientID, c.Query("token"), t)
	if err != nil {
		code, reason := hub.CloseCode(err)
		h.log.Info("Connection rejected", "room", roomID, "client", clientID, "code", code, "err", err)
		_ = t.CloseWithCode(code, reason)
		return
	}
	h.log.Info("Connection established", "room", roomID, "client", clientID)

	go t.pingLoop()
	defer func() { _ = t.Close() }()

	if err := session.Run(h.ctx); err != nil && !errors.Is(err, context.Canceled) {
		h.log.Debug("Session ended", "room", roomID, "client", clientID, "err", err)
	}
}
