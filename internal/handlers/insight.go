package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/services"
)

type InsightHandler struct {
  insightService services.InsightService
}

func NewInsightHandler(insightService services.InsightService) *InsightHandler {
  return &InsightHandler{insightService: insightService}
}

func (ih *InsightHandler) Generate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  insights, err := ih.insightService.Generate(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true, "insights": insights})
}

func (ih *InsightHandler) ListActive(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
  insights, err := ih.insightService.ListActive(c.Request.Context(), rd.UserID, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"insights": insights})
}
