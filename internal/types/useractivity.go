package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// UserActivity rows are append-only: never updated, never deleted. They
// are the sole behavioral signal source for interest profiles.
type UserActivity struct {
  ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  ActivityType    string         `gorm:"not null;index;column:activity_type" json:"activity_type"`
  ContentID       *uuid.UUID     `gorm:"type:uuid;index;column:content_id" json:"content_id,omitempty"`
  Content         *HealthContent `gorm:"constraint:OnDelete:SET NULL;foreignKey:ContentID;references:ID" json:"content,omitempty"`
  SearchQuery     *string        `gorm:"column:search_query" json:"search_query,omitempty"`
  DurationSeconds *int           `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
  Metadata        datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
  CreatedAt       time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (UserActivity) TableName() string {
  return "user_activity"
}
