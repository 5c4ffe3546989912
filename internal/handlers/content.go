package handlers

import (
  "net/http"
  "strconv"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/services"
)

type ContentHandler struct {
  contentService  services.ContentService
  activityService services.ActivityService
}

func NewContentHandler(contentService services.ContentService, activityService services.ActivityService) *ContentHandler {
  return &ContentHandler{contentService: contentService, activityService: activityService}
}

func (ch *ContentHandler) Get(c *gin.Context) {
  contentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
    return
  }
  ctx := c.Request.Context()

  content, gErr := ch.contentService.Get(ctx, contentID)
  if gErr != nil {
    RespondServiceError(c, gErr)
    return
  }

  payload := gin.H{"content": content}

  // Known users get their engagement state and a tracked view.
  if rd := requestdata.GetRequestData(ctx); rd != nil {
    engagement, eErr := ch.contentService.Engagement(ctx, rd.UserID, contentID)
    if eErr == nil {
      payload["engagement"] = engagement
    }
    ch.activityService.Track(ctx, rd.UserID, services.TrackInput{
      ActivityType: "view",
      ContentID:    &contentID,
    })
  }

  related, rErr := ch.contentService.Related(ctx, contentID)
  if rErr == nil {
    payload["related"] = related
  }
  RespondOK(c, payload)
}

func (ch *ContentHandler) Search(c *gin.Context) {
  ctx := c.Request.Context()
  query := c.Query("q")
  category := c.Query("category")
  contentType := c.Query("type")

  results, err := ch.contentService.Search(ctx, query, category, contentType)
  if err != nil {
    RespondServiceError(c, err)
    return
  }

  categories, _ := ch.contentService.Categories(ctx)
  contentTypes, _ := ch.contentService.ContentTypes(ctx)

  if rd := requestdata.GetRequestData(ctx); rd != nil && query != "" {
    ch.activityService.Track(ctx, rd.UserID, services.TrackInput{
      ActivityType: "search",
      SearchQuery:  &query,
    })
  }

  RespondOK(c, gin.H{
    "results":       results,
    "categories":    categories,
    "content_types": contentTypes,
  })
}

func (ch *ContentHandler) SearchSuggestions(c *gin.Context) {
  ctx := c.Request.Context()
  query := c.Query("q")

  suggestions, err := ch.contentService.Suggestions(ctx, query)
  if err != nil {
    RespondServiceError(c, err)
    return
  }

  if rd := requestdata.GetRequestData(ctx); rd != nil && len(strings.TrimSpace(query)) >= 2 {
    ch.activityService.Track(ctx, rd.UserID, services.TrackInput{
      ActivityType: "search",
      SearchQuery:  &query,
    })
  }

  RespondOK(c, gin.H{"suggestions": suggestions})
}

func (ch *ContentHandler) Featured(c *gin.Context) {
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
  contents, err := ch.contentService.Featured(c.Request.Context(), limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"content": contents})
}

func (ch *ContentHandler) Categories(c *gin.Context) {
  categories, err := ch.contentService.Categories(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"categories": categories})
}

func (ch *ContentHandler) ContentTypes(c *gin.Context) {
  contentTypes, err := ch.contentService.ContentTypes(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"content_types": contentTypes})
}

func (ch *ContentHandler) Rate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  var req struct {
    ContentID string `json:"content_id"`
    Rating    int    `json:"rating"`
    Review    string `json:"review"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  contentID, err := uuid.Parse(req.ContentID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
    return
  }
  ctx := c.Request.Context()
  if rErr := ch.contentService.Rate(ctx, rd.UserID, contentID, req.Rating, req.Review); rErr != nil {
    RespondServiceError(c, rErr)
    return
  }
  ch.activityService.Track(ctx, rd.UserID, services.TrackInput{
    ActivityType: "rating",
    ContentID:    &contentID,
    Metadata:     map[string]any{"rating": req.Rating},
  })
  RespondOK(c, gin.H{"success": true, "message": "Rating saved successfully"})
}

func (ch *ContentHandler) Bookmark(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  var req struct {
    ContentID string `json:"content_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  contentID, err := uuid.Parse(req.ContentID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
    return
  }
  ctx := c.Request.Context()
  action, tErr := ch.contentService.ToggleBookmark(ctx, rd.UserID, contentID)
  if tErr != nil {
    RespondServiceError(c, tErr)
    return
  }
  ch.activityService.Track(ctx, rd.UserID, services.TrackInput{
    ActivityType: "bookmark",
    ContentID:    &contentID,
    Metadata:     map[string]any{"action": action},
  })
  RespondOK(c, gin.H{"success": true, "action": action})
}

func (ch *ContentHandler) Bookmarks(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
  contents, err := ch.contentService.Bookmarks(c.Request.Context(), rd.UserID, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"content": contents})
}
