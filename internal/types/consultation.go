package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type Consultation struct {
  ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User              *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Symptoms          string         `gorm:"type:text;not null;column:symptoms" json:"symptoms"`
  AnalysisResult    datatypes.JSON `gorm:"type:jsonb;column:analysis_result" json:"analysis_result,omitempty"`
  ExtractedEntities datatypes.JSON `gorm:"type:jsonb;column:extracted_entities" json:"extracted_entities,omitempty"`
  SeverityLevel     string         `gorm:"column:severity_level" json:"severity_level,omitempty"`
  ConfidenceScore   float64        `gorm:"column:confidence_score" json:"confidence_score"`
  CreatedAt         time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Consultation) TableName() string {
  return "consultation"
}
