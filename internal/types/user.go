package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type User struct {
  ID                    uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Email                 string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password              string         `gorm:"not null;column:password" json:"-"`
  FullName              string         `gorm:"not null;column:full_name" json:"full_name"`
  Age                   *int           `gorm:"column:age" json:"age,omitempty"`
  Gender                string         `gorm:"column:gender" json:"gender"`
  Phone                 string         `gorm:"column:phone" json:"phone,omitempty"`
  MedicalConditions     string         `gorm:"type:text;column:medical_conditions" json:"medical_conditions,omitempty"`
  Medications           string         `gorm:"type:text;column:medications" json:"medications,omitempty"`
  Allergies             string         `gorm:"type:text;column:allergies" json:"allergies,omitempty"`
  EmergencyContact      string         `gorm:"column:emergency_contact" json:"emergency_contact,omitempty"`
  FitnessLevel          string         `gorm:"column:fitness_level" json:"fitness_level,omitempty"`
  HealthGoals           string         `gorm:"type:text;column:health_goals" json:"health_goals,omitempty"`
  PreferredContentTypes datatypes.JSON `gorm:"type:jsonb;column:preferred_content_types" json:"preferred_content_types,omitempty"`
  CreatedAt             time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt             time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
