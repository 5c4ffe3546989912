package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/types"
)

// UserActivityRepo is append-only: rows are created and queried, never
// updated or deleted.
type UserActivityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error)
  GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserActivity, error)
  GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error)
  GetContentIDsByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType string) ([]uuid.UUID, error)
  CountByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error)
}

type userActivityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
  repoLog := baseLog.With("repo", "UserActivityRepo")
  return &userActivityRepo{db: db, log: repoLog}
}

func (r *userActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(activities) == 0 {
    return []*types.UserActivity{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
    return nil, err
  }
  return activities, nil
}

func (r *userActivityRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserActivity
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND created_at > ?", userID, since).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userActivityRepo) GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserActivity
  if userID == uuid.Nil {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC")
  if limit > 0 {
    query = query.Limit(limit)
  }

  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetContentIDsByType returns the distinct content ids the user has an
// activity of the given type against. Used for the permanent
// already-viewed exclusion in recommendations.
func (r *userActivityRepo) GetContentIDsByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType string) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []uuid.UUID
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.UserActivity{}).
    Where("user_id = ? AND activity_type = ? AND content_id IS NOT NULL", userID, activityType).
    Distinct("content_id").
    Pluck("content_id", &results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userActivityRepo) CountByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  counts := make(map[string]int64)
  if userID == uuid.Nil {
    return counts, nil
  }

  var rows []struct {
    ActivityType string
    Count        int64
  }
  if err := transaction.WithContext(ctx).
    Model(&types.UserActivity{}).
    Select("activity_type, COUNT(id) AS count").
    Where("user_id = ?", userID).
    Group("activity_type").
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    counts[row.ActivityType] = row.Count
  }
  return counts, nil
}
