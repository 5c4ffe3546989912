package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/services"
)

type ConsultationHandler struct {
  consultationService services.ConsultationService
  activityService     services.ActivityService
}

func NewConsultationHandler(
  consultationService services.ConsultationService,
  activityService services.ActivityService,
) *ConsultationHandler {
  return &ConsultationHandler{
    consultationService: consultationService,
    activityService:     activityService,
  }
}

func (ch *ConsultationHandler) Analyze(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  var req struct {
    Symptoms string `json:"symptoms"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  result, err := ch.consultationService.Analyze(c.Request.Context(), rd.UserID, req.Symptoms)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (ch *ConsultationHandler) History(c *gin.Context) {
  ctx := c.Request.Context()
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

  consultations, err := ch.consultationService.History(ctx, rd.UserID, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  ch.activityService.Track(ctx, rd.UserID, services.TrackInput{ActivityType: "consultation_history_view"})
  RespondOK(c, gin.H{"consultations": consultations})
}

func (ch *ConsultationHandler) Get(c *gin.Context) {
  ctx := c.Request.Context()
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  consultationID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consultation id"})
    return
  }
  consultation, gErr := ch.consultationService.Get(ctx, rd.UserID, consultationID)
  if gErr != nil {
    RespondServiceError(c, gErr)
    return
  }
  ch.activityService.Track(ctx, rd.UserID, services.TrackInput{
    ActivityType: "consultation_view",
    Metadata:     map[string]any{"consultation_id": consultationID.String()},
  })
  RespondOK(c, consultation)
}
