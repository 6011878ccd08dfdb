package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/geniusclasses/backend/internal/catalog"
	"github.com/geniusclasses/backend/internal/db"
	"github.com/geniusclasses/backend/internal/gate"
	"github.com/geniusclasses/backend/internal/handlers"
	"github.com/geniusclasses/backend/internal/middleware"
	"github.com/geniusclasses/backend/internal/observability"
	"github.com/geniusclasses/backend/internal/platform/envutil"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/repos"
	"github.com/geniusclasses/backend/internal/server"
	"github.com/geniusclasses/backend/internal/services"
	"github.com/geniusclasses/backend/internal/sse"
	"github.com/geniusclasses/backend/internal/storage"
	"github.com/geniusclasses/backend/internal/types"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing (no-op unless OTEL_ENABLED)
	otelCfg := observability.ConfigFromEnv()
	otelCfg.ServiceName = "geniusclasses-backend"
	otelCfg.Environment = envutil.Str("APP_ENV", "development")
	otelCfg.Version = envutil.Str("APP_VERSION", "dev")
	otelShutdown := observability.InitOTel(ctx, log, otelCfg)
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY must be set")
	}
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 3600)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	teacherRepo := repos.NewCatalogRepo[types.Teacher](thePG, log, string(catalog.KindTeachers))
	materialRepo := repos.NewCatalogRepo[types.Material](thePG, log, string(catalog.KindMaterials))
	lectureRepo := repos.NewCatalogRepo[types.Lecture](thePG, log, string(catalog.KindLectures))
	resultRepo := repos.NewCatalogRepo[types.Result](thePG, log, string(catalog.KindResults))

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewHub(log)
	var sseBus sse.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		sseBus, err = sse.NewRedisBus(log)
		if err != nil {
			log.Fatal("Redis SSE bus init failed", "error", err)
		}
		defer sseBus.Close()
		if err := sseBus.StartForwarder(ctx, sseHub.Broadcast); err != nil {
			log.Fatal("Redis SSE forwarder failed", "error", err)
		}
	}
	notifier := sse.NewNotifier(sseHub, sseBus)

	// Services
	log.Info("Setting up services from main...")
	bucketService, err := storage.NewBucketService(log)
	if err != nil {
		log.Fatal("Could not init BucketService", "error", err)
	}

	teacherSchema := catalog.TeacherSchema()
	materialSchema := catalog.MaterialSchema()
	lectureSchema := catalog.LectureSchema()
	resultSchema := catalog.ResultSchema()
	if rulesPath := envutil.Str("CATALOG_RULES_PATH", ""); rulesPath != "" {
		overrides, err := catalog.LoadRulesFile(rulesPath)
		if err != nil {
			log.Fatal("Could not load catalog rules", "path", rulesPath, "error", err)
		}
		teacherSchema.ApplyOverride(overrides)
		materialSchema.ApplyOverride(overrides)
		lectureSchema.ApplyOverride(overrides)
		resultSchema.ApplyOverride(overrides)
	}

	teacherService := catalog.NewService(thePG, log, teacherRepo, bucketService, notifier, teacherSchema)
	materialService := catalog.NewService(thePG, log, materialRepo, bucketService, notifier, materialSchema)
	lectureService := catalog.NewService(thePG, log, lectureRepo, bucketService, notifier, lectureSchema)
	resultService := catalog.NewService(thePG, log, resultRepo, bucketService, notifier, resultSchema)

	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo,
		jwtSecretKey, time.Duration(accessTokenTTL)*time.Second,
	)
	if err := authService.EnsureAdminUser(ctx); err != nil {
		log.Fatal("Admin bootstrap failed", "error", err)
	}

	gateRegistry := gate.NewRegistry(log)
	gateRegistry.StartSweeper(ctx, 5*time.Minute)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService, gateRegistry)
	gateHandler := handlers.NewGateHandler(gateRegistry)
	teacherHandler := handlers.NewTeacherHandler(log, teacherService)
	materialHandler := handlers.NewMaterialHandler(log, materialService)
	lectureHandler := handlers.NewLectureHandler(log, lectureService)
	resultHandler := handlers.NewResultHandler(log, resultService)
	overviewHandler := handlers.NewOverviewHandler(log, teacherService, materialService, lectureService, resultService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		GateHandler:     gateHandler,
		TeacherHandler:  teacherHandler,
		MaterialHandler: materialHandler,
		LectureHandler:  lectureHandler,
		ResultHandler:   resultHandler,
		OverviewHandler: overviewHandler,
		SSEHandler:      sseHandler,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
