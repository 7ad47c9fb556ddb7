package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tyrowin/roomcast/internal/auth"
	"github.com/Tyrowin/roomcast/internal/chat"
	"github.com/Tyrowin/roomcast/internal/heartbeat"
	"github.com/Tyrowin/roomcast/internal/hub"
	"github.com/Tyrowin/roomcast/internal/room"
	"github.com/Tyrowin/roomcast/internal/weather"
)

// App wires the room manager, broadcast engine, background producers and
// HTTP surface into one service.
type App struct {
	cfg       *Config
	log       *slog.Logger
	engine    *hub.Engine
	heartbeat *heartbeat.Ticker
	robots    weather.Fleet
	router    *gin.Engine
	server    *http.Server

	sessionCtx    context.Context
	cancelSession context.CancelFunc
}

// NewApp builds an App from cfg. Nothing runs until Start or Run.
func NewApp(cfg *Config, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	rooms := room.NewManager(log,
		room.WithHistoryCapacity(cfg.MaxMessagesPerRoom),
		room.WithMaxConnections(cfg.MaxConnectionsPerRoom),
	)
	validator := auth.NewValidator(cfg.Tokens(), cfg.JWTSecret)
	source := weather.NewOpenWeather(cfg.OpenWeatherAPIKey, log)

	opts := []hub.Option{hub.WithRateLimit(hub.RateLimit{
		Burst:          cfg.RateLimitBurst,
		RefillInterval: cfg.RateLimitRefillInterval,
	})}
	if cfg.EnableChatAssistant {
		assistant := chat.NewResponder(source, chat.WithRobotIntervals(cfg.RobotBogotaInterval, cfg.RobotMedellinInterval))
		opts = append(opts, hub.WithResponder(cfg.HeartbeatRoom, assistant))
	}
	engine := hub.NewEngine(rooms, validator, log, opts...)
	ticker := heartbeat.NewTicker(engine, cfg.HeartbeatRoom, cfg.HeartbeatInterval, log)

	var robots weather.Fleet
	if cfg.EnableRobots {
		robots = weather.Fleet{
			weather.NewRobot("bogota", cfg.HeartbeatRoom, cfg.RobotBogotaInterval, source, engine, log),
			weather.NewRobot("medellin", cfg.HeartbeatRoom, cfg.RobotMedellinInterval, source, engine, log),
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	handlers := NewHandlers(ctx, cfg, engine, validator, ticker, robots, log)
	router := SetupRoutes(handlers)

	return &App{
		cfg:           cfg,
		log:           log,
		engine:        engine,
		heartbeat:     ticker,
		robots:        robots,
		router:        router,
		server:        CreateServer(cfg.Addr(), router),
		sessionCtx:    ctx,
		cancelSession: cancel,
	}
}

// Handler returns the HTTP handler serving every route.
func (a *App) Handler() http.Handler { return a.router }

// Engine returns the broadcast engine.
func (a *App) Engine() *hub.Engine { return a.engine }

// Start launches the heartbeat and weather robots.
func (a *App) Start() {
	a.heartbeat.Start()
	a.robots.Start()
	a.log.Info("Background producers started",
		"heartbeat_room", a.heartbeat.RoomID(),
		"robots", a.robots.Running(),
	)
}

// Run starts the service on ln and blocks until ctx is done or the server
// fails, then shuts everything down.
func (a *App) Run(ctx context.Context, ln net.Listener) error {
	a.Start()

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("Server listening", "addr", ln.Addr().String())
		serveErr <- a.server.Serve(ln)
	}()

	var err error
	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received")
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	return errors.Join(err, a.Shutdown())
}

// Shutdown stops the producers, drains HTTP requests and closes every
// session.
func (a *App) Shutdown() error {
	a.robots.Stop()
	a.heartbeat.Stop()

	httpErr := ShutdownServer(a.server, a.cfg.ShutdownTimeout, a.log)
	a.cancelSession()
	return errors.Join(httpErr, a.engine.Shutdown(a.cfg.ShutdownTimeout))
}
