package services

import (
  "context"
  "encoding/json"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/sse"
  "github.com/careloop/careloop-backend/internal/types"
)

const quickRecommendLimit = 3

// TrackInput carries one activity event. Only ActivityType is required.
type TrackInput struct {
  ActivityType    string
  ContentID       *uuid.UUID
  SearchQuery     *string
  DurationSeconds *int
  Metadata        map[string]any
}

type ActivityService interface {
  // Track appends an activity row. It never returns an error: tracking
  // is advisory and must not fail the request that triggered it.
  Track(ctx context.Context, userID uuid.UUID, input TrackInput)
  RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.UserActivity, error)
  CountsByType(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
}

type activityService struct {
  log                   *logger.Logger
  activityRepo          repos.UserActivityRepo
  recommendationService RecommendationService
  publisher             sse.Publisher
}

func NewActivityService(
  log *logger.Logger,
  activityRepo repos.UserActivityRepo,
  recommendationService RecommendationService,
  publisher sse.Publisher,
) ActivityService {
  serviceLog := log.With("service", "ActivityService")
  return &activityService{
    log:                   serviceLog,
    activityRepo:          activityRepo,
    recommendationService: recommendationService,
    publisher:             publisher,
  }
}

func (as *activityService) Track(ctx context.Context, userID uuid.UUID, input TrackInput) {
  if input.ActivityType == "" {
    return
  }

  activity := &types.UserActivity{
    ID:              uuid.New(),
    UserID:          userID,
    ActivityType:    input.ActivityType,
    ContentID:       input.ContentID,
    SearchQuery:     input.SearchQuery,
    DurationSeconds: input.DurationSeconds,
  }
  if input.Metadata != nil {
    raw, mErr := json.Marshal(input.Metadata)
    if mErr != nil {
      as.log.Warn("Failed to marshal activity metadata", "error", mErr)
    } else {
      activity.Metadata = datatypes.JSON(raw)
    }
  }

  if _, cErr := as.activityRepo.Create(ctx, nil, []*types.UserActivity{activity}); cErr != nil {
    as.log.Warn("Failed to track activity", "activityType", input.ActivityType, "error", cErr)
    return
  }

  // Significant activity refreshes the user's live recommendations.
  switch input.ActivityType {
  case "view", "rating", "bookmark":
    as.pushQuickRecommendations(ctx, userID)
  }
}

func (as *activityService) pushQuickRecommendations(ctx context.Context, userID uuid.UUID) {
  if as.publisher == nil {
    return
  }
  recommendations, rErr := as.recommendationService.Recommend(ctx, userID, quickRecommendLimit)
  if rErr != nil {
    as.log.Warn("Failed to compute quick recommendations", "error", rErr)
    return
  }

  summaries := make([]map[string]any, 0, len(recommendations))
  for _, content := range recommendations {
    summaries = append(summaries, map[string]any{
      "id":           content.ID,
      "title":        content.Title,
      "category":     content.Category,
      "content_type": content.ContentType,
    })
  }
  as.publisher.Publish(sse.SSEMessage{
    Channel: sse.UserChannel(userID),
    Event:   sse.SSEEventQuickRecommendations,
    Data:    map[string]any{"recommendations": summaries},
  })
}

func (as *activityService) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.UserActivity, error) {
  return as.activityRepo.GetRecentByUser(ctx, nil, userID, limit)
}

func (as *activityService) CountsByType(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
  return as.activityRepo.CountByType(ctx, nil, userID)
}
