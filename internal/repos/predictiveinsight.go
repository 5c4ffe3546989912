package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/types"
)

type PredictiveInsightRepo interface {
  Create(ctx context.Context, tx *gorm.DB, insights []*types.PredictiveInsight) ([]*types.PredictiveInsight, error)
  GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PredictiveInsight, error)
}

type predictiveInsightRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPredictiveInsightRepo(db *gorm.DB, baseLog *logger.Logger) PredictiveInsightRepo {
  repoLog := baseLog.With("repo", "PredictiveInsightRepo")
  return &predictiveInsightRepo{db: db, log: repoLog}
}

func (r *predictiveInsightRepo) Create(ctx context.Context, tx *gorm.DB, insights []*types.PredictiveInsight) ([]*types.PredictiveInsight, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(insights) == 0 {
    return []*types.PredictiveInsight{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&insights).Error; err != nil {
    return nil, err
  }
  return insights, nil
}

func (r *predictiveInsightRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PredictiveInsight, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PredictiveInsight
  if userID == uuid.Nil {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Where("user_id = ? AND is_active = ?", userID, true).
    Order("created_at DESC")
  if limit > 0 {
    query = query.Limit(limit)
  }

  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
