package types

import (
  "time"
  "github.com/google/uuid"
)

// At most one bookmark per (user, content) pair; bookmarking again removes it.
type UserBookmark struct {
  ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_user_bookmark_user_content" json:"user_id"`
  User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  ContentID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_user_bookmark_user_content" json:"content_id"`
  Content   *HealthContent `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"content,omitempty"`
  CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (UserBookmark) TableName() string {
  return "user_bookmark"
}
