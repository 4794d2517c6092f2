package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/wilds-game/internal/config"
	"github.com/annel0/wilds-game/internal/game"
	"github.com/annel0/wilds-game/internal/logging"
	"github.com/annel0/wilds-game/internal/middleware"
	"github.com/annel0/wilds-game/internal/player"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RESTServer — отладочный HTTP API симуляции: состояние аватара,
// сведения о мире, подача намерения движения и метрики процесса.
type RESTServer struct {
	game    *game.Game
	router  *gin.Engine
	srv     *http.Server
	metrics *ServerMetrics
}

// intentRequest — тело POST /api/debug/intent.
type intentRequest struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
	Jump     bool `json:"jump"`
}

// NewRESTServer собирает маршруты и middleware отладочного API.
func NewRESTServer(g *game.Game, cfg *config.Config) *RESTServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.NewRequestLogger().Handler())
	router.Use(otelgin.Middleware("wilds-game"))

	prom := middleware.NewPrometheusMiddleware("wilds")
	router.Use(prom.Handler())
	prom.RegisterMetricsEndpoint(router)

	rs := &RESTServer{
		game:    g,
		router:  router,
		metrics: NewServerMetrics(),
	}

	router.GET("/health", rs.handleHealth)

	debug := router.Group("/api/debug")
	{
		debug.GET("/avatar", rs.handleAvatar)
		debug.GET("/world", rs.handleWorld)
		debug.GET("/structures", rs.handleStructures)
		debug.GET("/stats", rs.handleStats)
		debug.POST("/intent", rs.handleIntent)
	}

	rs.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return rs
}

// Start запускает HTTP сервер (блокирует до остановки).
func (rs *RESTServer) Start() error {
	logging.Info("🌐 Отладочный REST API запущен на %s", rs.srv.Addr)
	if err := rs.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: сервер остановлен с ошибкой: %w", err)
	}
	return nil
}

// Shutdown корректно останавливает сервер.
func (rs *RESTServer) Shutdown(ctx context.Context) error {
	return rs.srv.Shutdown(ctx)
}

// Router отдаёт gin.Engine (используется в тестах).
func (rs *RESTServer) Router() *gin.Engine { return rs.router }

func (rs *RESTServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (rs *RESTServer) handleAvatar(c *gin.Context) {
	snap := rs.game.Snapshot()
	c.JSON(http.StatusOK, snap)
}

func (rs *RESTServer) handleWorld(c *gin.Context) {
	w := rs.game.World()
	avatar := rs.game.Avatar()

	resp := gin.H{
		"seed":      w.Heights.Seed(),
		"size":      w.Heights.Size(),
		"buildings": w.Structures.Count(),
		"trees":     len(w.Trees),
		"ground_at_avatar": w.GroundHeight(
			avatar.Position.X, avatar.Position.Z),
	}

	if fp, dist, ok := w.Structures.Nearest(avatar.Position); ok {
		resp["nearest_building_id"] = fp.ID
		resp["nearest_building_distance"] = dist
	}
	if dist, ok := w.NearestTree(avatar.Position); ok {
		resp["nearest_tree_distance"] = dist
	}

	c.JSON(http.StatusOK, resp)
}

func (rs *RESTServer) handleStructures(c *gin.Context) {
	all := rs.game.World().Structures.All()
	c.JSON(http.StatusOK, gin.H{
		"count":     len(all),
		"buildings": all,
	})
}

func (rs *RESTServer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, rs.metrics.Collect())
}

func (rs *RESTServer) handleIntent(c *gin.Context) {
	var req intentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	rs.game.SetIntent(player.InputIntent{
		Forward:  req.Forward,
		Backward: req.Backward,
		Left:     req.Left,
		Right:    req.Right,
		Jump:     req.Jump,
	})
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}
