package server

import (
  "os"
  "strings"
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/careloop/careloop-backend/internal/handlers"
  "github.com/careloop/careloop-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  UserHandler           *handlers.UserHandler
  ContentHandler        *handlers.ContentHandler
  RecommendationHandler *handlers.RecommendationHandler
  ConsultationHandler   *handlers.ConsultationHandler
  InsightHandler        *handlers.InsightHandler
  AnalyticsHandler      *handlers.AnalyticsHandler
  SSEHandler            *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  if strings.EqualFold(os.Getenv("OTEL_ENABLED"), "true") {
    router.Use(otelgin.Middleware("careloop-backend"))
  }

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)

    // Content browsing is open; identity is attached when present so
    // views get tracked.
    browse := api.Group("/")
    browse.Use(cfg.AuthMiddleware.OptionalAuth())
    browse.GET("/content/:id", cfg.ContentHandler.Get)
    browse.GET("/featured", cfg.ContentHandler.Featured)
    browse.GET("/categories", cfg.ContentHandler.Categories)
    browse.GET("/content_types", cfg.ContentHandler.ContentTypes)
    browse.GET("/search", cfg.ContentHandler.Search)
    browse.GET("/search_suggestions", cfg.ContentHandler.SearchSuggestions)
  }

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // SSE
  protected.GET("/sse/stream", cfg.SSEHandler.Stream)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)
  // Engagement
  protected.POST("/rate_content", cfg.ContentHandler.Rate)
  protected.POST("/bookmark_content", cfg.ContentHandler.Bookmark)
  protected.GET("/bookmarks", cfg.ContentHandler.Bookmarks)
  // Recommendations
  protected.GET("/recommendations", cfg.RecommendationHandler.List)
  protected.GET("/recommendations/refresh", cfg.RecommendationHandler.Refresh)
  protected.GET("/interests", cfg.RecommendationHandler.Interests)
  // Consultations
  protected.POST("/consultation", cfg.ConsultationHandler.Analyze)
  protected.GET("/consultation_history", cfg.ConsultationHandler.History)
  protected.GET("/consultation/:id", cfg.ConsultationHandler.Get)
  // Insights
  protected.POST("/generate_insights", cfg.InsightHandler.Generate)
  protected.GET("/insights", cfg.InsightHandler.ListActive)
  // Analytics
  protected.GET("/analytics", cfg.AnalyticsHandler.Dashboard)

  return router
}
