package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geniusclasses/backend/internal/handlers"
	"github.com/geniusclasses/backend/internal/middleware"
	"github.com/geniusclasses/backend/internal/observability"
	"github.com/geniusclasses/backend/internal/platform/envutil"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	GateHandler     *handlers.GateHandler
	TeacherHandler  *handlers.TeacherHandler
	MaterialHandler *handlers.MaterialHandler
	LectureHandler  *handlers.LectureHandler
	ResultHandler   *handlers.ResultHandler
	OverviewHandler *handlers.OverviewHandler
	SSEHandler      *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if observability.Enabled() {
		router.Use(otelgin.Middleware("geniusclasses-backend"))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.GET("/teachers", cfg.TeacherHandler.List)
		api.GET("/materials", cfg.MaterialHandler.List)
		api.GET("/lectures", cfg.LectureHandler.List)
		api.GET("/results", cfg.ResultHandler.List)
	}

	// Gate + login stay public; the gate stages are a deterrent in front of
	// the form, not an authorization check the API relies on.
	admin := api.Group("/admin")
	{
		admin.POST("/gate", cfg.GateHandler.Begin)
		admin.POST("/gate/:token/gesture", cfg.GateHandler.Gesture)
		admin.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := admin.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.GET("/me", cfg.AuthHandler.Me)
		protected.GET("/overview", cfg.OverviewHandler.Overview)
		protected.GET("/events", cfg.SSEHandler.Stream)

		protected.POST("/teachers", cfg.TeacherHandler.Create)
		protected.PUT("/teachers/:id", cfg.TeacherHandler.Update)
		protected.DELETE("/teachers/:id", cfg.TeacherHandler.Delete)

		protected.POST("/materials", cfg.MaterialHandler.Create)
		protected.DELETE("/materials/:id", cfg.MaterialHandler.Delete)

		protected.POST("/lectures", cfg.LectureHandler.Create)
		protected.DELETE("/lectures/:id", cfg.LectureHandler.Delete)

		protected.POST("/results", cfg.ResultHandler.Create)
		protected.DELETE("/results/:id", cfg.ResultHandler.Delete)
	}

	return router
}

func allowedOrigins() []string {
	raw := envutil.Str("CORS_ALLOW_ORIGINS", "")
	if raw == "" {
		return []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:5174",
		}
	}
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
