package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/sse"
)

type SSEHandler struct {
  hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
  return &SSEHandler{hub: hub}
}

// Stream subscribes the caller to their user channel and holds the
// connection open until the client goes away.
func (sh *SSEHandler) Stream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  client := sh.hub.NewSSEClient(rd.UserID)
  sh.hub.AddChannel(client, sse.UserChannel(rd.UserID))
  defer sh.hub.CloseClient(client)

  sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
