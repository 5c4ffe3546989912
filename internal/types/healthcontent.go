package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// HealthContent is immutable once created except for PopularityScore,
// which is adjusted externally.
type HealthContent struct {
  ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Title            string         `gorm:"not null;column:title" json:"title"`
  ContentType      string         `gorm:"not null;index;column:content_type" json:"content_type"`
  Category         string         `gorm:"not null;index;column:category" json:"category"`
  Description      string         `gorm:"type:text;column:description" json:"description,omitempty"`
  ContentURL       string         `gorm:"column:content_url" json:"content_url,omitempty"`
  ImageURL         string         `gorm:"column:image_url" json:"image_url,omitempty"`
  Tags             datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`
  DifficultyLevel  string         `gorm:"column:difficulty_level" json:"difficulty_level,omitempty"`
  DurationMinutes  *int           `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
  TargetAgeMin     *int           `gorm:"column:target_age_min" json:"target_age_min,omitempty"`
  TargetAgeMax     *int           `gorm:"column:target_age_max" json:"target_age_max,omitempty"`
  TargetConditions datatypes.JSON `gorm:"type:jsonb;column:target_conditions" json:"target_conditions,omitempty"`
  PopularityScore  float64        `gorm:"not null;default:0;index;column:popularity_score" json:"popularity_score"`
  CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (HealthContent) TableName() string {
  return "health_content"
}
