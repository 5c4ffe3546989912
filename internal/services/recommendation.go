package services

import (
  "context"
  "errors"
  "fmt"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/apperr"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

const defaultRecommendLimit = 10

type RecommendationService interface {
  Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]*types.HealthContent, error)
}

type recommendationService struct {
  log             *logger.Logger
  interestService InterestService
  userRepo        repos.UserRepo
  activityRepo    repos.UserActivityRepo
  contentRepo     repos.HealthContentRepo
}

func NewRecommendationService(
  log *logger.Logger,
  interestService InterestService,
  userRepo repos.UserRepo,
  activityRepo repos.UserActivityRepo,
  contentRepo repos.HealthContentRepo,
) RecommendationService {
  serviceLog := log.With("service", "RecommendationService")
  return &recommendationService{
    log:             serviceLog,
    interestService: interestService,
    userRepo:        userRepo,
    activityRepo:    activityRepo,
    contentRepo:     contentRepo,
  }
}

// Recommend returns at most limit catalog entries for the user, ordered
// by popularity then recency. An unknown user yields an empty slice,
// not an error: anonymous push-channel sessions rely on that.
func (rs *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]*types.HealthContent, error) {
  if limit <= 0 {
    limit = defaultRecommendLimit
  }

  profile, pErr := rs.interestService.BuildInterests(ctx, userID)
  if pErr != nil {
    if errors.Is(pErr, apperr.ErrNotFound) {
      return []*types.HealthContent{}, nil
    }
    return nil, pErr
  }

  users, uErr := rs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    return nil, fmt.Errorf("Failed to load user for recommendations: %w", uErr)
  }
  if len(users) == 0 {
    return []*types.HealthContent{}, nil
  }
  user := users[0]

  // Viewed content is excluded permanently, never re-surfaced here.
  viewedIDs, vErr := rs.activityRepo.GetContentIDsByType(ctx, nil, userID, "view")
  if vErr != nil {
    return nil, fmt.Errorf("Failed to load viewed content ids: %w", vErr)
  }

  candidates, cErr := rs.contentRepo.ListCandidates(ctx, nil, repos.CandidateFilter{
    Categories: profile.Categories,
    Age:        user.Age,
    ExcludeIDs: viewedIDs,
    Limit:      limit,
  })
  if cErr != nil {
    return nil, fmt.Errorf("Failed to list recommendation candidates: %w", cErr)
  }

  rs.log.Debug("Recommendations computed", "userID", userID,
    "candidates", len(candidates), "excluded", len(viewedIDs))
  return candidates, nil
}
