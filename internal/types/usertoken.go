package types

import (
  "time"
  "github.com/google/uuid"
)

type UserToken struct {
  ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
  User          *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  AccessToken   string      `gorm:"type:text;not null;column:access_token" json:"-"`
  RefreshToken  string      `gorm:"type:text;not null;index;column:refresh_token" json:"-"`
  ExpiresAt     time.Time   `gorm:"not null" json:"expires_at"`
  CreatedAt     time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (UserToken) TableName() string {
  return "user_token"
}
