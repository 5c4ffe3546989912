package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/types"
)

type UserRatingRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, rating *types.UserRating) error
  GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*types.UserRating, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserRating, error)
}

type userRatingRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRatingRepo(db *gorm.DB, baseLog *logger.Logger) UserRatingRepo {
  repoLog := baseLog.With("repo", "UserRatingRepo")
  return &userRatingRepo{db: db, log: repoLog}
}

// Upsert keeps at most one rating per (user, content) pair; a repeat
// rating replaces the previous value (last writer wins).
func (r *userRatingRepo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.UserRating) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if rating == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
    }).
    Create(rating).Error; err != nil {
    return err
  }
  return nil
}

func (r *userRatingRepo) GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*types.UserRating, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserRating
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND content_id = ?", userID, contentID).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *userRatingRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserRating, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserRating
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
