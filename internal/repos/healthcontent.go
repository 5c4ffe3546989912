package repos

import (
  "context"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/types"
)

// CandidateFilter is the catalog query contract the recommendation
// engine consumes: category-set filter, age-range filter with nullable
// bounds, id exclusion, popularity/recency ordering, limit.
type CandidateFilter struct {
  Categories []string
  Age        *int
  ExcludeIDs []uuid.UUID
  Limit      int
}

type HealthContentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, contents []*types.HealthContent) ([]*types.HealthContent, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.HealthContent, error)
  ListCandidates(ctx context.Context, tx *gorm.DB, filter CandidateFilter) ([]*types.HealthContent, error)
  ListTopByPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]*types.HealthContent, error)
  ListRelated(ctx context.Context, tx *gorm.DB, category string, excludeID uuid.UUID, limit int) ([]*types.HealthContent, error)
  Search(ctx context.Context, tx *gorm.DB, query, category, contentType string) ([]*types.HealthContent, error)
  MatchTitles(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.HealthContent, error)
  MatchCategories(ctx context.Context, tx *gorm.DB, query string, limit int) ([]string, error)
  DistinctCategories(ctx context.Context, tx *gorm.DB) ([]string, error)
  DistinctContentTypes(ctx context.Context, tx *gorm.DB) ([]string, error)
}

type healthContentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewHealthContentRepo(db *gorm.DB, baseLog *logger.Logger) HealthContentRepo {
  repoLog := baseLog.With("repo", "HealthContentRepo")
  return &healthContentRepo{db: db, log: repoLog}
}

func (r *healthContentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.HealthContent) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(contents) == 0 {
    return []*types.HealthContent{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
    return nil, err
  }
  return contents, nil
}

func (r *healthContentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.HealthContent
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) ListCandidates(ctx context.Context, tx *gorm.DB, filter CandidateFilter) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).Model(&types.HealthContent{})

  if len(filter.Categories) > 0 {
    query = query.Where("category IN ?", filter.Categories)
  }
  if filter.Age != nil {
    query = query.
      Where("target_age_min IS NULL OR target_age_min <= ?", *filter.Age).
      Where("target_age_max IS NULL OR target_age_max >= ?", *filter.Age)
  }
  if len(filter.ExcludeIDs) > 0 {
    query = query.Where("id NOT IN ?", filter.ExcludeIDs)
  }
  query = query.Order("popularity_score DESC").Order("created_at DESC")
  if filter.Limit > 0 {
    query = query.Limit(filter.Limit)
  }

  var results []*types.HealthContent
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) ListTopByPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Order("popularity_score DESC").
    Order("created_at DESC")
  if limit > 0 {
    query = query.Limit(limit)
  }

  var results []*types.HealthContent
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) ListRelated(ctx context.Context, tx *gorm.DB, category string, excludeID uuid.UUID, limit int) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Where("category = ?", category).
    Where("id <> ?", excludeID)
  if limit > 0 {
    query = query.Limit(limit)
  }

  var results []*types.HealthContent
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) Search(ctx context.Context, tx *gorm.DB, searchQuery, category, contentType string) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).Model(&types.HealthContent{})

  searchQuery = strings.TrimSpace(searchQuery)
  if searchQuery != "" {
    pattern := "%" + strings.ToLower(searchQuery) + "%"
    query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
  }
  if category != "" {
    query = query.Where("category = ?", category)
  }
  if contentType != "" {
    query = query.Where("content_type = ?", contentType)
  }

  var results []*types.HealthContent
  if err := query.
    Order("popularity_score DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) MatchTitles(ctx context.Context, tx *gorm.DB, searchQuery string, limit int) ([]*types.HealthContent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  pattern := "%" + strings.ToLower(searchQuery) + "%"
  query := transaction.WithContext(ctx).
    Model(&types.HealthContent{}).
    Where("LOWER(title) LIKE ?", pattern).
    Order("popularity_score DESC")
  if limit > 0 {
    query = query.Limit(limit)
  }

  var results []*types.HealthContent
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) MatchCategories(ctx context.Context, tx *gorm.DB, searchQuery string, limit int) ([]string, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  pattern := "%" + strings.ToLower(searchQuery) + "%"
  query := transaction.WithContext(ctx).
    Model(&types.HealthContent{}).
    Distinct("category").
    Where("LOWER(category) LIKE ?", pattern).
    Order("category")
  if limit > 0 {
    query = query.Limit(limit)
  }

  var results []string
  if err := query.Pluck("category", &results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) DistinctCategories(ctx context.Context, tx *gorm.DB) ([]string, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []string
  if err := transaction.WithContext(ctx).
    Model(&types.HealthContent{}).
    Distinct("category").
    Order("category").
    Pluck("category", &results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *healthContentRepo) DistinctContentTypes(ctx context.Context, tx *gorm.DB) ([]string, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []string
  if err := transaction.WithContext(ctx).
    Model(&types.HealthContent{}).
    Distinct("content_type").
    Order("content_type").
    Pluck("content_type", &results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
