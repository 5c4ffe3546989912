package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/types"
)

type UserBookmarkRepo interface {
  Create(ctx context.Context, tx *gorm.DB, bookmark *types.UserBookmark) error
  GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*types.UserBookmark, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserBookmark, error)
  DeleteByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) error
}

type userBookmarkRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) UserBookmarkRepo {
  repoLog := baseLog.With("repo", "UserBookmarkRepo")
  return &userBookmarkRepo{db: db, log: repoLog}
}

func (r *userBookmarkRepo) Create(ctx context.Context, tx *gorm.DB, bookmark *types.UserBookmark) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if bookmark == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Create(bookmark).Error; err != nil {
    return err
  }
  return nil
}

func (r *userBookmarkRepo) GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*types.UserBookmark, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserBookmark
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

func (r *userBookmarkRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserBookmark, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserBookmark
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

func (r *userBookmarkRepo) DeleteByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND content_id = ?", userID, contentID).
    Delete(&types.UserBookmark{}).Error; err != nil {
    return err
  }
  return nil
}
