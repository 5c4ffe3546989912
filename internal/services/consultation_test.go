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

func newTestConsultationService(t *testing.T, db *gorm.DB, gateway AIGateway) ConsultationService {
	t.Helper()
	log := testLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	consultationRepo := repos.NewConsultationRepo(db, log)
	activityService := newTestActivityService(t, db, nil)
	return NewConsultationService(log, gateway, userRepo, consultationRepo, activityService)
}

func TestAnalyzeRequiresSymptoms(t *testing.T) {
	db := openTestDB(t)
	svc := newTestConsultationService(t, db, &stubGateway{})

	for _, symptoms := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Analyze(context.Background(), uuid.New(), symptoms); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("Analyze(%q)=%v, want ErrInvalidInput", symptoms, err)
		}
	}
}

func TestAnalyzeUnknownUser(t *testing.T) {
	db := openTestDB(t)
	svc := newTestConsultationService(t, db, &stubGateway{})

	if _, err := svc.Analyze(context.Background(), uuid.New(), "persistent headache"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Analyze=%v, want ErrNotFound", err)
	}
}

func TestAnalyzePersistsConsultation(t *testing.T) {
	db := openTestDB(t)
	gateway := &stubGateway{
		entities: []types.MedicalEntity{{Text: "headache", Label: "Sign_symptom", Confidence: 0.92}},
		analysis: types.SymptomAnalysis{
			Condition:       "Tension headache",
			Severity:        "mild",
			Confidence:      0.7,
			Recommendations: []string{"Rest and hydration"},
		},
	}
	svc := newTestConsultationService(t, db, gateway)

	age := 42
	user := seedUser(t, db, &age, "", "")

	result, err := svc.Analyze(context.Background(), user.ID, "  persistent headache  ")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Consultation.Symptoms != "persistent headache" {
		t.Fatalf("Symptoms=%q, want trimmed input", result.Consultation.Symptoms)
	}
	if result.Analysis.Condition != "Tension headache" {
		t.Fatalf("Condition=%q, want Tension headache", result.Analysis.Condition)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("entities=%d, want 1", len(result.Entities))
	}

	var stored types.Consultation
	if err := db.Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("load consultation: %v", err)
	}
	if stored.SeverityLevel != "mild" {
		t.Fatalf("SeverityLevel=%q, want mild", stored.SeverityLevel)
	}
	if stored.ConfidenceScore != 0.7 {
		t.Fatalf("ConfidenceScore=%v, want 0.7", stored.ConfidenceScore)
	}

	var trackCount int64
	if err := db.Model(&types.UserActivity{}).
		Where("user_id = ? AND activity_type = ?", user.ID, "consultation").
		Count(&trackCount).Error; err != nil {
		t.Fatalf("count consultation activities: %v", err)
	}
	if trackCount != 1 {
		t.Fatalf("consultation activity rows=%d, want 1", trackCount)
	}
}

func TestConsultationGetScopedToUser(t *testing.T) {
	db := openTestDB(t)
	svc := newTestConsultationService(t, db, &stubGateway{})

	age := 42
	owner := seedUser(t, db, &age, "", "")
	other := seedUser(t, db, &age, "", "")

	result, err := svc.Analyze(context.Background(), owner.ID, "sore throat")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if _, err := svc.Get(context.Background(), owner.ID, result.Consultation.ID); err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if _, err := svc.Get(context.Background(), other.ID, result.Consultation.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get as other user=%v, want ErrNotFound", err)
	}
}
