package types

import (
  "time"
  "github.com/google/uuid"
)

type PredictiveInsight struct {
  ID              uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
  User            *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  InsightType     string      `gorm:"not null;column:insight_type" json:"insight_type"`
  Title           string      `gorm:"not null;column:title" json:"title"`
  Description     string      `gorm:"type:text;not null;column:description" json:"description"`
  ConfidenceScore float64     `gorm:"not null;column:confidence_score" json:"confidence_score"`
  PriorityLevel   string      `gorm:"not null;column:priority_level" json:"priority_level"`
  // No column default here: gorm drops zero values for defaulted
  // columns, which would make a false IsActive unpersistable. The
  // service sets the flag explicitly on create.
  IsActive        bool        `gorm:"not null;column:is_active" json:"is_active"`
  CreatedAt       time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (PredictiveInsight) TableName() string {
  return "predictive_insight"
}
