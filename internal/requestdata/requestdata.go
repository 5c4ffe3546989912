// Package requestdata carries the authenticated caller's identity
// through a request's context. The auth middleware attaches it after
// validating a token; handlers read it to scope queries and to decide
// whether activity tracking applies.
package requestdata

import (
  "context"
  "github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

// GetRequestData returns the caller's identity, or nil for anonymous
// requests (public browse routes with no bearer token).
func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

// RequestData is the per-request identity: the raw access token, the
// refresh token cookie value when present, and the resolved user id.
type RequestData struct {
  TokenString  string
  RefreshToken string
  UserID       uuid.UUID
}
