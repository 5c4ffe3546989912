package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/careloop/careloop-backend/internal/clients/gemini"
  "github.com/careloop/careloop-backend/internal/clients/hf"
  "github.com/careloop/careloop-backend/internal/clients/redis"
  "github.com/careloop/careloop-backend/internal/db"
  "github.com/careloop/careloop-backend/internal/handlers"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/middleware"
  "github.com/careloop/careloop-backend/internal/observability"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/server"
  "github.com/careloop/careloop-backend/internal/services"
  "github.com/careloop/careloop-backend/internal/sse"
  "github.com/careloop/careloop-backend/internal/utils"
)

// busPublisher routes service-side publishes through redis so every
// instance's hub sees them.
type busPublisher struct {
  bus redis.SSEBus
}

func (bp busPublisher) Publish(msg sse.SSEMessage) {
  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  _ = bp.bus.Publish(ctx, msg)
}

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  // Tracing
  ctx := context.Background()
  if shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "careloop-backend",
    Environment: utils.GetEnv("ENVIRONMENT", "development", log),
  }); shutdown != nil {
    defer func() {
      shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdown(shutdownCtx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  contentRepo := repos.NewHealthContentRepo(thePG, log)
  activityRepo := repos.NewUserActivityRepo(thePG, log)
  ratingRepo := repos.NewUserRatingRepo(thePG, log)
  bookmarkRepo := repos.NewUserBookmarkRepo(thePG, log)
  consultationRepo := repos.NewConsultationRepo(thePG, log)
  insightRepo := repos.NewPredictiveInsightRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)
  var publisher sse.Publisher = sseHub
  if os.Getenv("REDIS_ADDR") != "" {
    sseBus, busErr := redis.NewSSEBus(log)
    if busErr != nil {
      log.Warn("Redis SSE bus init failed, falling back to local hub", "error", busErr)
    } else {
      if fwdErr := sseBus.StartForwarder(ctx, sseHub.Broadcast); fwdErr != nil {
        log.Warn("Redis SSE forwarder failed, falling back to local hub", "error", fwdErr)
      } else {
        publisher = busPublisher{bus: sseBus}
        defer sseBus.Close()
      }
    }
  }

  // AI clients
  log.Info("Setting up AI clients from main...")
  nlpClient, err := hf.NewClient(log)
  if err != nil {
    log.Error("Could not init HF client", "error", err)
    os.Exit(1)
  }
  llmClient, err := gemini.NewClient(log)
  if err != nil {
    log.Error("Could not init Gemini client", "error", err)
    os.Exit(1)
  }

  // Services
  log.Info("Setting up Services from main...")
  gateway := services.NewAIGateway(log, nlpClient, llmClient, userRepo, activityRepo, contentRepo, consultationRepo)
  interestService := services.NewInterestService(log, userRepo, activityRepo, contentRepo, services.NewKeywordLexicon())
  recommendationService := services.NewRecommendationService(log, interestService, userRepo, activityRepo, contentRepo)
  activityService := services.NewActivityService(log, activityRepo, recommendationService, publisher)
  contentService := services.NewContentService(log, contentRepo, ratingRepo, bookmarkRepo)
  consultationService := services.NewConsultationService(log, gateway, userRepo, consultationRepo, activityService)
  insightService := services.NewInsightService(log, gateway, insightRepo, activityService, publisher)
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(log, userRepo, activityService)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService, activityService)
  userHandler := handlers.NewUserHandler(userService)
  contentHandler := handlers.NewContentHandler(contentService, activityService)
  recommendationHandler := handlers.NewRecommendationHandler(recommendationService, interestService, gateway, activityService)
  consultationHandler := handlers.NewConsultationHandler(consultationService, activityService)
  insightHandler := handlers.NewInsightHandler(insightService)
  analyticsHandler := handlers.NewAnalyticsHandler(activityService, insightService)
  sseHandler := handlers.NewSSEHandler(sseHub)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:           authHandler,
    AuthMiddleware:        authMiddleware,
    UserHandler:           userHandler,
    ContentHandler:        contentHandler,
    RecommendationHandler: recommendationHandler,
    ConsultationHandler:   consultationHandler,
    InsightHandler:        insightHandler,
    AnalyticsHandler:      analyticsHandler,
    SSEHandler:            sseHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
