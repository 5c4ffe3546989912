package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careloop/careloop-backend/internal/apperr"
	"github.com/careloop/careloop-backend/internal/repos"
	"github.com/careloop/careloop-backend/internal/types"
)

func newTestUserService(t *testing.T, db *gorm.DB) UserService {
	t.Helper()
	log := testLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	return NewUserService(log, userRepo, newTestActivityService(t, db, nil))
}

func TestUserGetByIDNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := newTestUserService(t, db)

	if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetByID=%v, want ErrNotFound", err)
	}
}

func TestUpdateProfileAppliesFields(t *testing.T) {
	db := openTestDB(t)
	svc := newTestUserService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "beginner")

	newAge := 31
	conditions := "diabetes"
	fitness := "intermediate"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		Age:               &newAge,
		MedicalConditions: &conditions,
		FitnessLevel:      &fitness,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Age == nil || *updated.Age != 31 {
		t.Fatalf("Age=%v, want 31", updated.Age)
	}
	if updated.MedicalConditions != "diabetes" {
		t.Fatalf("MedicalConditions=%q, want diabetes", updated.MedicalConditions)
	}
	if updated.FitnessLevel != "intermediate" {
		t.Fatalf("FitnessLevel=%q, want intermediate", updated.FitnessLevel)
	}
	// Untouched columns stay as they were.
	if updated.FullName != user.FullName {
		t.Fatalf("FullName=%q, want unchanged %q", updated.FullName, user.FullName)
	}

	var trackCount int64
	if err := db.Model(&types.UserActivity{}).
		Where("user_id = ? AND activity_type = ?", user.ID, "profile_update").
		Count(&trackCount).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	if trackCount != 1 {
		t.Fatalf("profile_update rows=%d, want 1", trackCount)
	}
}

func TestUpdateProfileValidatesAge(t *testing.T) {
	db := openTestDB(t)
	svc := newTestUserService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "")

	for _, bad := range []int{-1, 131} {
		badAge := bad
		if _, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Age: &badAge}); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("UpdateProfile(age=%d)=%v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestUpdateProfileEmptyUpdateSkipsTracking(t *testing.T) {
	db := openTestDB(t)
	svc := newTestUserService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "")

	if _, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	var trackCount int64
	if err := db.Model(&types.UserActivity{}).Where("user_id = ?", user.ID).Count(&trackCount).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	if trackCount != 0 {
		t.Fatalf("activity rows=%d, want 0", trackCount)
	}
}
