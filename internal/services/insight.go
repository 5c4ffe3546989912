package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/sse"
  "github.com/careloop/careloop-backend/internal/types"
)

const activeInsightLimit = 10

type InsightService interface {
  // Generate asks the gateway for fresh insight drafts and persists
  // them. An empty draft set is a valid outcome, not an error.
  Generate(ctx context.Context, userID uuid.UUID) ([]*types.PredictiveInsight, error)
  ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PredictiveInsight, error)
}

type insightService struct {
  log             *logger.Logger
  gateway         AIGateway
  insightRepo     repos.PredictiveInsightRepo
  activityService ActivityService
  publisher       sse.Publisher
}

func NewInsightService(
  log *logger.Logger,
  gateway AIGateway,
  insightRepo repos.PredictiveInsightRepo,
  activityService ActivityService,
  publisher sse.Publisher,
) InsightService {
  serviceLog := log.With("service", "InsightService")
  return &insightService{
    log:             serviceLog,
    gateway:         gateway,
    insightRepo:     insightRepo,
    activityService: activityService,
    publisher:       publisher,
  }
}

func (is *insightService) Generate(ctx context.Context, userID uuid.UUID) ([]*types.PredictiveInsight, error) {
  drafts := is.gateway.GenerateInsights(ctx, userID)
  if len(drafts) == 0 {
    return []*types.PredictiveInsight{}, nil
  }

  insights := make([]*types.PredictiveInsight, 0, len(drafts))
  for _, draft := range drafts {
    insights = append(insights, &types.PredictiveInsight{
      ID:              uuid.New(),
      UserID:          userID,
      InsightType:     draft.Type,
      Title:           draft.Title,
      Description:     draft.Description,
      ConfidenceScore: draft.Confidence,
      PriorityLevel:   draft.Priority,
      IsActive:        true,
    })
  }
  if _, cErr := is.insightRepo.Create(ctx, nil, insights); cErr != nil {
    return nil, fmt.Errorf("Failed to persist insights: %w", cErr)
  }

  is.activityService.Track(ctx, userID, TrackInput{ActivityType: "insights_generated"})

  if is.publisher != nil {
    is.publisher.Publish(sse.SSEMessage{
      Channel: sse.UserChannel(userID),
      Event:   sse.SSEEventInsightsGenerated,
      Data:    map[string]any{"count": len(insights)},
    })
  }
  return insights, nil
}

func (is *insightService) ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PredictiveInsight, error) {
  if limit <= 0 {
    limit = activeInsightLimit
  }
  return is.insightRepo.GetActiveByUserID(ctx, nil, userID, limit)
}
