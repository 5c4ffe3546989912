package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careloop/careloop-backend/internal/repos"
	"github.com/careloop/careloop-backend/internal/types"
)

type stubNLPClient struct {
	entities []types.MedicalEntity
	answer   string
	label    types.ContentLabel
	err      error
}

func (s *stubNLPClient) ExtractEntities(ctx context.Context, text string) ([]types.MedicalEntity, error) {
	return s.entities, s.err
}

func (s *stubNLPClient) AnswerQuestion(ctx context.Context, question, qaContext string) (string, error) {
	return s.answer, s.err
}

func (s *stubNLPClient) ClassifyContent(ctx context.Context, text string) (types.ContentLabel, error) {
	return s.label, s.err
}

type stubLLMClient struct {
	raw []byte
	err error
}

func (s *stubLLMClient) GenerateJSON(ctx context.Context, system, prompt string) (json.RawMessage, error) {
	return json.RawMessage(s.raw), s.err
}

func (s *stubLLMClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return string(s.raw), s.err
}

func newTestGateway(t *testing.T, db *gorm.DB, nlp *stubNLPClient, llm *stubLLMClient) AIGateway {
	t.Helper()
	log := testLogger(t)
	return NewAIGateway(
		log,
		nlp,
		llm,
		repos.NewUserRepo(db, log),
		repos.NewUserActivityRepo(db, log),
		repos.NewHealthContentRepo(db, log),
		repos.NewConsultationRepo(db, log),
	)
}

func TestGatewayExtractEntitiesFallback(t *testing.T) {
	db := openTestDB(t)
	gateway := newTestGateway(t, db, &stubNLPClient{err: errors.New("upstream down")}, &stubLLMClient{})

	got := gateway.ExtractEntities(context.Background(), "chest pain")
	if got == nil {
		t.Fatal("ExtractEntities returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("ExtractEntities returned %d entities on failure, want 0", len(got))
	}
}

func TestGatewayAnswerQuestionFallback(t *testing.T) {
	db := openTestDB(t)
	gateway := newTestGateway(t, db, &stubNLPClient{err: errors.New("upstream down")}, &stubLLMClient{})

	got := gateway.AnswerQuestion(context.Background(), "what is hypertension", "")
	if got != fallbackAnswer {
		t.Fatalf("AnswerQuestion fallback=%q, want %q", got, fallbackAnswer)
	}
}

func TestGatewayClassifyContentFallback(t *testing.T) {
	db := openTestDB(t)
	gateway := newTestGateway(t, db, &stubNLPClient{err: errors.New("upstream down")}, &stubLLMClient{})

	got := gateway.ClassifyContent(context.Background(), "some article")
	if got.Label != "general" || got.Score != 0.5 {
		t.Fatalf("ClassifyContent fallback=%+v, want general/0.5", got)
	}
}

func TestGatewayAnalyzeSymptomsFallback(t *testing.T) {
	db := openTestDB(t)
	gateway := newTestGateway(t, db, &stubNLPClient{}, &stubLLMClient{err: errors.New("upstream down")})

	got := gateway.AnalyzeSymptoms(context.Background(), "headache", nil)
	if got.Condition != "Analysis unavailable" {
		t.Fatalf("Condition=%q, want Analysis unavailable", got.Condition)
	}
	if got.Severity != types.SeverityUnknown {
		t.Fatalf("Severity=%q, want %q", got.Severity, types.SeverityUnknown)
	}
	if got.Confidence != 0 {
		t.Fatalf("Confidence=%v, want 0", got.Confidence)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != consultProfessional {
		t.Fatalf("Recommendations=%v, want the consult-a-professional record", got.Recommendations)
	}
}

func TestGatewayAnalyzeSymptomsNormalizesResult(t *testing.T) {
	db := openTestDB(t)
	raw := `{"condition":"migraine","severity":"catastrophic","confidence":1.7,"recommendations":["rest"]}`
	gateway := newTestGateway(t, db, &stubNLPClient{}, &stubLLMClient{raw: []byte(raw)})

	got := gateway.AnalyzeSymptoms(context.Background(), "headache", nil)
	if got.Condition != "migraine" {
		t.Fatalf("Condition=%q, want migraine", got.Condition)
	}
	if got.Severity != types.SeverityUnknown {
		t.Fatalf("unrecognized severity normalized to %q, want %q", got.Severity, types.SeverityUnknown)
	}
	if got.Confidence != 1 {
		t.Fatalf("Confidence=%v, want clamped to 1", got.Confidence)
	}
}

func TestGatewayGenerateInsightsDefaults(t *testing.T) {
	db := openTestDB(t)
	age := 40
	user := seedUser(t, db, &age, "", "")

	raw := `[{"title":"Hydration trend","description":"drink more water"}]`
	gateway := newTestGateway(t, db, &stubNLPClient{}, &stubLLMClient{raw: []byte(raw)})

	got := gateway.GenerateInsights(context.Background(), user.ID)
	if len(got) != 1 {
		t.Fatalf("GenerateInsights returned %d drafts, want 1", len(got))
	}
	draft := got[0]
	if draft.Type != "wellness_trend" {
		t.Fatalf("Type=%q, want wellness_trend default", draft.Type)
	}
	if draft.Priority != "medium" {
		t.Fatalf("Priority=%q, want medium default", draft.Priority)
	}
	if draft.Confidence != 0.5 {
		t.Fatalf("Confidence=%v, want 0.5 default", draft.Confidence)
	}
}

func TestGatewayGenerateInsightsRejectsUnknownPriority(t *testing.T) {
	db := openTestDB(t)
	age := 40
	user := seedUser(t, db, &age, "", "")

	raw := `[{"type":"health_risk","title":"Blood pressure","description":"monitor weekly","priority":"urgent","confidence":0.9}]`
	gateway := newTestGateway(t, db, &stubNLPClient{}, &stubLLMClient{raw: []byte(raw)})

	got := gateway.GenerateInsights(context.Background(), user.ID)
	if len(got) != 1 {
		t.Fatalf("GenerateInsights returned %d drafts, want 1", len(got))
	}
	if got[0].Priority != types.PriorityMedium {
		t.Fatalf("Priority=%q for out-of-enum value, want %q", got[0].Priority, types.PriorityMedium)
	}
}

func TestGatewayGenerateInsightsUnknownUser(t *testing.T) {
	db := openTestDB(t)
	gateway := newTestGateway(t, db, &stubNLPClient{}, &stubLLMClient{raw: []byte(`[]`)})

	got := gateway.GenerateInsights(context.Background(), uuid.New())
	if len(got) != 0 {
		t.Fatalf("GenerateInsights unknown user returned %d drafts, want 0", len(got))
	}
}

func TestDecodeRecommendationList(t *testing.T) {
	bare := `[{"title":"Walk daily","priority":"low","confidence":0.8}]`
	wrapped := `{"recommendations":[{"title":"Walk daily","priority":"low","confidence":0.8}]}`

	if got := decodeRecommendationList(json.RawMessage(bare)); len(got) != 1 {
		t.Fatalf("bare list decoded to %d items, want 1", len(got))
	}
	if got := decodeRecommendationList(json.RawMessage(wrapped)); len(got) != 1 {
		t.Fatalf("wrapped list decoded to %d items, want 1", len(got))
	}
	if got := decodeRecommendationList(json.RawMessage(`"nonsense"`)); got != nil {
		t.Fatalf("invalid payload decoded to %v, want nil", got)
	}
}
