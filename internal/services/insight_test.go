package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careloop/careloop-backend/internal/repos"
	"github.com/careloop/careloop-backend/internal/sse"
	"github.com/careloop/careloop-backend/internal/types"
)

type stubGateway struct {
	insights []types.InsightDraft
	entities []types.MedicalEntity
	analysis types.SymptomAnalysis
}

func (sg *stubGateway) ExtractEntities(ctx context.Context, text string) []types.MedicalEntity {
	if sg.entities == nil {
		return []types.MedicalEntity{}
	}
	return sg.entities
}

func (sg *stubGateway) AnswerQuestion(ctx context.Context, question, qaContext string) string {
	return ""
}

func (sg *stubGateway) ClassifyContent(ctx context.Context, text string) types.ContentLabel {
	return types.ContentLabel{Label: "general", Score: 0.5}
}

func (sg *stubGateway) AnalyzeSymptoms(ctx context.Context, symptoms string, user *types.User) types.SymptomAnalysis {
	return sg.analysis
}

func (sg *stubGateway) GenerateHealthRecommendations(ctx context.Context, userID uuid.UUID) []types.HealthRecommendation {
	return []types.HealthRecommendation{}
}

func (sg *stubGateway) GenerateInsights(ctx context.Context, userID uuid.UUID) []types.InsightDraft {
	return sg.insights
}

func newTestInsightService(t *testing.T, db *gorm.DB, gateway AIGateway, publisher sse.Publisher) InsightService {
	t.Helper()
	log := testLogger(t)
	insightRepo := repos.NewPredictiveInsightRepo(db, log)
	activityService := newTestActivityService(t, db, nil)
	return NewInsightService(log, gateway, insightRepo, activityService, publisher)
}

func TestGenerateInsightsPersistsAndPublishes(t *testing.T) {
	db := openTestDB(t)
	publisher := &capturePublisher{}
	gateway := &stubGateway{insights: []types.InsightDraft{
		{Type: "health_risk", Title: "Sleep pattern shift", Description: "Late activity spikes", Confidence: 0.8, Priority: "high"},
		{Type: "wellness_trend", Title: "Consistent workouts", Description: "Steady fitness engagement", Confidence: 0.6, Priority: "medium"},
	}}
	svc := newTestInsightService(t, db, gateway, publisher)

	age := 30
	user := seedUser(t, db, &age, "", "")

	insights, err := svc.Generate(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(insights) != 2 {
		t.Fatalf("generated %d insights, want 2", len(insights))
	}
	for _, insight := range insights {
		if !insight.IsActive {
			t.Fatalf("insight %q inactive, want active", insight.Title)
		}
	}

	var count int64
	if err := db.Model(&types.PredictiveInsight{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count insights: %v", err)
	}
	if count != 2 {
		t.Fatalf("persisted %d insights, want 2", count)
	}

	messages := publisher.Messages()
	if len(messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(messages))
	}
	if messages[0].Event != sse.SSEEventInsightsGenerated {
		t.Fatalf("event=%q, want %q", messages[0].Event, sse.SSEEventInsightsGenerated)
	}
}

func TestGenerateInsightsEmptyDrafts(t *testing.T) {
	db := openTestDB(t)
	publisher := &capturePublisher{}
	svc := newTestInsightService(t, db, &stubGateway{}, publisher)

	insights, err := svc.Generate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(insights) != 0 {
		t.Fatalf("generated %d insights, want 0", len(insights))
	}
	if got := publisher.Messages(); len(got) != 0 {
		t.Fatalf("published %d messages for empty drafts, want 0", len(got))
	}
}

func TestInactiveInsightPersistsAsInactive(t *testing.T) {
	db := openTestDB(t)
	age := 30
	user := seedUser(t, db, &age, "", "")

	row := &types.PredictiveInsight{
		ID:          uuid.New(),
		UserID:      user.ID,
		InsightType: "wellness_trend",
		Title:       "dismissed",
		IsActive:    false,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("create insight: %v", err)
	}

	var stored types.PredictiveInsight
	if err := db.Where("id = ?", row.ID).First(&stored).Error; err != nil {
		t.Fatalf("load insight: %v", err)
	}
	if stored.IsActive {
		t.Fatal("IsActive=true after storing false, zero value was dropped on insert")
	}
}

func TestListActiveOrdering(t *testing.T) {
	db := openTestDB(t)
	svc := newTestInsightService(t, db, &stubGateway{}, nil)
	age := 30
	user := seedUser(t, db, &age, "", "")

	rows := []*types.PredictiveInsight{
		{ID: uuid.New(), UserID: user.ID, InsightType: "wellness_trend", Title: "older", IsActive: true},
		{ID: uuid.New(), UserID: user.ID, InsightType: "wellness_trend", Title: "inactive", IsActive: false},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed insight: %v", err)
		}
	}

	active, err := svc.ListActive(context.Background(), user.ID, 0)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active insights=%d, want 1", len(active))
	}
	if active[0].Title != "older" {
		t.Fatalf("active[0].Title=%q, want older", active[0].Title)
	}
}
