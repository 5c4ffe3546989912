package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/apperr"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

// ProfileUpdate carries the mutable profile fields. Nil means leave the
// column unchanged.
type ProfileUpdate struct {
  FullName          *string `json:"full_name,omitempty"`
  Age               *int    `json:"age,omitempty"`
  Gender            *string `json:"gender,omitempty"`
  Phone             *string `json:"phone,omitempty"`
  MedicalConditions *string `json:"medical_conditions,omitempty"`
  Medications       *string `json:"medications,omitempty"`
  Allergies         *string `json:"allergies,omitempty"`
  EmergencyContact  *string `json:"emergency_contact,omitempty"`
  FitnessLevel      *string `json:"fitness_level,omitempty"`
  HealthGoals       *string `json:"health_goals,omitempty"`
}

type UserService interface {
  GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
  UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error)
}

type userService struct {
  log             *logger.Logger
  userRepo        repos.UserRepo
  activityService ActivityService
}

func NewUserService(
  log *logger.Logger,
  userRepo repos.UserRepo,
  activityService ActivityService,
) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{
    log:             serviceLog,
    userRepo:        userRepo,
    activityService: activityService,
  }
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, apperr.ErrNotFound
  }
  return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error) {
  if _, err := us.GetByID(ctx, userID); err != nil {
    return nil, err
  }

  fields := map[string]interface{}{}
  if update.FullName != nil {
    fields["full_name"] = *update.FullName
  }
  if update.Age != nil {
    if *update.Age < 0 || *update.Age > 130 {
      return nil, fmt.Errorf("age out of range: %w", apperr.ErrInvalidInput)
    }
    fields["age"] = *update.Age
  }
  if update.Gender != nil {
    fields["gender"] = *update.Gender
  }
  if update.Phone != nil {
    fields["phone"] = *update.Phone
  }
  if update.MedicalConditions != nil {
    fields["medical_conditions"] = *update.MedicalConditions
  }
  if update.Medications != nil {
    fields["medications"] = *update.Medications
  }
  if update.Allergies != nil {
    fields["allergies"] = *update.Allergies
  }
  if update.EmergencyContact != nil {
    fields["emergency_contact"] = *update.EmergencyContact
  }
  if update.FitnessLevel != nil {
    fields["fitness_level"] = *update.FitnessLevel
  }
  if update.HealthGoals != nil {
    fields["health_goals"] = *update.HealthGoals
  }

  if len(fields) > 0 {
    if uErr := us.userRepo.UpdateProfile(ctx, nil, userID, fields); uErr != nil {
      return nil, fmt.Errorf("Failed to update profile: %w", uErr)
    }
    us.activityService.Track(ctx, userID, TrackInput{ActivityType: "profile_update"})
  }
  return us.GetByID(ctx, userID)
}
