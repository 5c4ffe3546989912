package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/services"
)

type RecommendationHandler struct {
  recommendationService services.RecommendationService
  interestService       services.InterestService
  gateway               services.AIGateway
  activityService       services.ActivityService
}

func NewRecommendationHandler(
  recommendationService services.RecommendationService,
  interestService services.InterestService,
  gateway services.AIGateway,
  activityService services.ActivityService,
) *RecommendationHandler {
  return &RecommendationHandler{
    recommendationService: recommendationService,
    interestService:       interestService,
    gateway:               gateway,
    activityService:       activityService,
  }
}

func (rh *RecommendationHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

  recommendations, err := rh.recommendationService.Recommend(c.Request.Context(), rd.UserID, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"recommendations": recommendations})
}

// Refresh recomputes both recommendation sources: the LLM-generated
// suggestions and the catalog engine.
func (rh *RecommendationHandler) Refresh(c *gin.Context) {
  ctx := c.Request.Context()
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  aiRecommendations := rh.gateway.GenerateHealthRecommendations(ctx, rd.UserID)
  contentRecommendations, err := rh.recommendationService.Recommend(ctx, rd.UserID, 6)
  if err != nil {
    RespondServiceError(c, err)
    return
  }

  rh.activityService.Track(ctx, rd.UserID, services.TrackInput{ActivityType: "recommendation_request"})

  RespondOK(c, gin.H{
    "ai_recommendations":      aiRecommendations,
    "content_recommendations": contentRecommendations,
  })
}

func (rh *RecommendationHandler) Interests(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  profile, err := rh.interestService.BuildInterests(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, profile)
}
