package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/services"
)

type AnalyticsHandler struct {
  activityService services.ActivityService
  insightService  services.InsightService
}

func NewAnalyticsHandler(
  activityService services.ActivityService,
  insightService services.InsightService,
) *AnalyticsHandler {
  return &AnalyticsHandler{
    activityService: activityService,
    insightService:  insightService,
  }
}

// Dashboard returns the user's activity breakdown plus current insights.
func (ah *AnalyticsHandler) Dashboard(c *gin.Context) {
  ctx := c.Request.Context()
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  activityStats, aErr := ah.activityService.CountsByType(ctx, rd.UserID)
  if aErr != nil {
    RespondServiceError(c, aErr)
    return
  }
  insights, iErr := ah.insightService.ListActive(ctx, rd.UserID, 10)
  if iErr != nil {
    RespondServiceError(c, iErr)
    return
  }

  ah.activityService.Track(ctx, rd.UserID, services.TrackInput{ActivityType: "analytics_view"})

  RespondOK(c, gin.H{
    "activity_stats": activityStats,
    "insights":       insights,
  })
}
