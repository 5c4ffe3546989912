package types

import (
  "time"
  "github.com/google/uuid"
)

// At most one rating per (user, content) pair; repeated ratings upsert.
type UserRating struct {
  ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_user_rating_user_content" json:"user_id"`
  User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  ContentID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_user_rating_user_content" json:"content_id"`
  Content   *HealthContent `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"content,omitempty"`
  Rating    int            `gorm:"not null;column:rating" json:"rating"`
  Review    string         `gorm:"type:text;column:review" json:"review,omitempty"`
  CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserRating) TableName() string {
  return "user_rating"
}
