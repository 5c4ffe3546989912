package utils

import (
  "context"
  "fmt"
  "strings"
  "golang.org/x/crypto/bcrypt"
  "github.com/careloop/careloop-backend/internal/apperr"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, log *logger.Logger, user *types.User) error {
  if user == nil {
    return fmt.Errorf("%w: no user given, cannot proceed with registration", apperr.ErrInvalidInput)
  }
  if user.Email == "" {
    return fmt.Errorf("%w: an email is required to register", apperr.ErrInvalidInput)
  }
  emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return fmt.Errorf("failed to check user email: %w", err)
  }
  if emailExists {
    return fmt.Errorf("%w: email is already in use", apperr.ErrInvalidInput)
  }
  if user.Password == "" {
    return fmt.Errorf("%w: a password is required to register", apperr.ErrInvalidInput)
  }
  if user.FullName == "" {
    return fmt.Errorf("%w: a full name is required to register", apperr.ErrInvalidInput)
  }
  if user.Age != nil && (*user.Age < 0 || *user.Age > 130) {
    return fmt.Errorf("%w: age out of range", apperr.ErrInvalidInput)
  }
  return nil
}

func ValidateLogin(email, password string) error {
  if email == "" {
    return fmt.Errorf("%w: email is required to login", apperr.ErrInvalidInput)
  }
  if password == "" {
    return fmt.Errorf("%w: password is required to login", apperr.ErrInvalidInput)
  }
  return nil
}

func HashPassword(user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return fmt.Errorf("failed to hash password: %w", err)
  }
  user.Password = string(hashedPassword)
  return nil
}

func NormalizeUserFields(user *types.User) {
  user.Email = strings.ToLower(strings.TrimSpace(user.Email))
  user.FullName = strings.TrimSpace(user.FullName)
  user.Gender = strings.ToLower(strings.TrimSpace(user.Gender))
  user.Phone = strings.TrimSpace(user.Phone)
  user.MedicalConditions = strings.TrimSpace(user.MedicalConditions)
  user.Medications = strings.TrimSpace(user.Medications)
  user.Allergies = strings.TrimSpace(user.Allergies)
  user.FitnessLevel = strings.ToLower(strings.TrimSpace(user.FitnessLevel))
  user.HealthGoals = strings.TrimSpace(user.HealthGoals)
}
