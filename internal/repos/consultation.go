package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/types"
)

type ConsultationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, consultations []*types.Consultation) ([]*types.Consultation, error)
  GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Consultation, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Consultation, error)
  GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Consultation, error)
}

type consultationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewConsultationRepo(db *gorm.DB, baseLog *logger.Logger) ConsultationRepo {
  repoLog := baseLog.With("repo", "ConsultationRepo")
  return &consultationRepo{db: db, log: repoLog}
}

func (r *consultationRepo) Create(ctx context.Context, tx *gorm.DB, consultations []*types.Consultation) ([]*types.Consultation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(consultations) == 0 {
    return []*types.Consultation{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&consultations).Error; err != nil {
    return nil, err
  }
  return consultations, nil
}

func (r *consultationRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Consultation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Consultation
  if err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", id, userID).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *consultationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Consultation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Consultation
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

func (r *consultationRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Consultation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Consultation
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND created_at > ?", userID, since).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
