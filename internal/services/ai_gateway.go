package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/clients/gemini"
  "github.com/careloop/careloop-backend/internal/clients/hf"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

// Fallback values returned when an upstream call fails. The gateway
// never surfaces upstream errors to callers and never retries: one
// failed call yields the fallback immediately.
const fallbackAnswer = "I'm unable to provide a specific answer at this time. Please consult with a healthcare professional."

const consultProfessional = "Please consult with a healthcare professional for proper diagnosis."

const symptomSystemPrompt = `You are a medical AI assistant. Analyze the provided symptoms and provide a structured assessment.
IMPORTANT: Always include medical disclaimers and recommend consulting healthcare professionals.
Provide your response in JSON format with: condition, severity, confidence, and recommendations.`

const recommendationSystemPrompt = `You are a healthcare AI assistant specializing in personalized health recommendations.
Generate specific, actionable health recommendations based on the user profile and activity patterns.
Provide recommendations in JSON format with title, description, category, priority, and confidence.`

const insightSystemPrompt = `You are a healthcare analytics AI. Generate predictive health insights based on user data patterns.
Focus on wellness trends, potential health risks, and preventive recommendations.
Provide insights in JSON format with type, title, description, confidence, and priority.`

// AIGateway is the only boundary to the external AI providers. Methods
// return values, never errors: failures degrade to fixed fallbacks.
type AIGateway interface {
  ExtractEntities(ctx context.Context, text string) []types.MedicalEntity
  AnswerQuestion(ctx context.Context, question, qaContext string) string
  ClassifyContent(ctx context.Context, text string) types.ContentLabel
  AnalyzeSymptoms(ctx context.Context, symptoms string, user *types.User) types.SymptomAnalysis
  GenerateHealthRecommendations(ctx context.Context, userID uuid.UUID) []types.HealthRecommendation
  GenerateInsights(ctx context.Context, userID uuid.UUID) []types.InsightDraft
}

type aiGateway struct {
  log              *logger.Logger
  nlpClient        hf.Client
  llmClient        gemini.Client
  userRepo         repos.UserRepo
  activityRepo     repos.UserActivityRepo
  contentRepo      repos.HealthContentRepo
  consultationRepo repos.ConsultationRepo
}

func NewAIGateway(
  log *logger.Logger,
  nlpClient hf.Client,
  llmClient gemini.Client,
  userRepo repos.UserRepo,
  activityRepo repos.UserActivityRepo,
  contentRepo repos.HealthContentRepo,
  consultationRepo repos.ConsultationRepo,
) AIGateway {
  serviceLog := log.With("service", "AIGateway")
  return &aiGateway{
    log:              serviceLog,
    nlpClient:        nlpClient,
    llmClient:        llmClient,
    userRepo:         userRepo,
    activityRepo:     activityRepo,
    contentRepo:      contentRepo,
    consultationRepo: consultationRepo,
  }
}

func (g *aiGateway) ExtractEntities(ctx context.Context, text string) []types.MedicalEntity {
  entities, err := g.nlpClient.ExtractEntities(ctx, text)
  if err != nil {
    g.log.Warn("Entity extraction failed, returning empty set", "error", err)
    return []types.MedicalEntity{}
  }
  return entities
}

func (g *aiGateway) AnswerQuestion(ctx context.Context, question, qaContext string) string {
  answer, err := g.nlpClient.AnswerQuestion(ctx, question, qaContext)
  if err != nil {
    g.log.Warn("Question answering failed, returning disclaimer", "error", err)
    return fallbackAnswer
  }
  return answer
}

func (g *aiGateway) ClassifyContent(ctx context.Context, text string) types.ContentLabel {
  label, err := g.nlpClient.ClassifyContent(ctx, text)
  if err != nil {
    g.log.Warn("Content classification failed, returning general label", "error", err)
    return types.ContentLabel{Label: "general", Score: 0.5}
  }
  return label
}

func fallbackSymptomAnalysis() types.SymptomAnalysis {
  return types.SymptomAnalysis{
    Condition:       "Analysis unavailable",
    Severity:        types.SeverityUnknown,
    Confidence:      0.0,
    Recommendations: []string{consultProfessional},
  }
}

func (g *aiGateway) AnalyzeSymptoms(ctx context.Context, symptoms string, user *types.User) types.SymptomAnalysis {
  profileContext := ""
  if user != nil {
    age := "unknown"
    if user.Age != nil {
      age = fmt.Sprintf("%d", *user.Age)
    }
    profileContext = fmt.Sprintf(`Patient Profile:
- Age: %s
- Gender: %s
- Medical Conditions: %s
- Medications: %s
- Allergies: %s
`, age, orNone(user.Gender), orNone(user.MedicalConditions), orNone(user.Medications), orNone(user.Allergies))
  }

  prompt := fmt.Sprintf(`%s
Symptoms: %s

Please analyze these symptoms and provide:
1. Most likely condition or conditions
2. Severity level (low, moderate, high, critical)
3. Confidence level (0.0 to 1.0)
4. Recommendations for next steps

Include appropriate medical disclaimers.`, profileContext, symptoms)

  raw, err := g.llmClient.GenerateJSON(ctx, symptomSystemPrompt, prompt)
  if err != nil {
    g.log.Warn("Symptom analysis failed, returning fallback", "error", err)
    return fallbackSymptomAnalysis()
  }

  var analysis types.SymptomAnalysis
  if err := json.Unmarshal(raw, &analysis); err != nil {
    g.log.Warn("Symptom analysis decode failed, returning fallback", "error", err)
    return fallbackSymptomAnalysis()
  }

  analysis.Severity = normalizeSeverity(analysis.Severity)
  analysis.Confidence = clampConfidence(analysis.Confidence)
  if len(analysis.Recommendations) == 0 {
    analysis.Recommendations = []string{consultProfessional}
  }
  return analysis
}

func (g *aiGateway) GenerateHealthRecommendations(ctx context.Context, userID uuid.UUID) []types.HealthRecommendation {
  users, uErr := g.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil || len(users) == 0 {
    return []types.HealthRecommendation{}
  }
  user := users[0]

  activitySummary := g.categoryActivitySummary(ctx, userID, 30*24*time.Hour)

  profileJSON, _ := json.Marshal(map[string]any{
    "age":                user.Age,
    "gender":             user.Gender,
    "medical_conditions": user.MedicalConditions,
    "medications":        user.Medications,
    "fitness_level":      user.FitnessLevel,
    "health_goals":       user.HealthGoals,
  })
  summaryJSON, _ := json.Marshal(activitySummary)

  prompt := fmt.Sprintf(`User Profile: %s
Recent Activity: %s

Generate 3-5 personalized health recommendations that are:
1. Specific to the user's profile and conditions
2. Actionable and practical
3. Evidence-based when possible
4. Include appropriate medical disclaimers

Categories: nutrition, fitness, mental_health, cardiology, preventive_care, lifestyle
Priority levels: low, medium, high`, string(profileJSON), string(summaryJSON))

  raw, err := g.llmClient.GenerateJSON(ctx, recommendationSystemPrompt, prompt)
  if err != nil {
    g.log.Warn("Recommendation generation failed, returning empty set", "error", err)
    return []types.HealthRecommendation{}
  }

  recommendations := decodeRecommendationList(raw)
  if recommendations == nil {
    g.log.Warn("Recommendation decode failed, returning empty set")
    return []types.HealthRecommendation{}
  }
  for i := range recommendations {
    recommendations[i].Confidence = clampConfidence(recommendations[i].Confidence)
  }
  return recommendations
}

func (g *aiGateway) GenerateInsights(ctx context.Context, userID uuid.UUID) []types.InsightDraft {
  users, uErr := g.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil || len(users) == 0 {
    return []types.InsightDraft{}
  }
  user := users[0]

  since := time.Now().Add(-90 * 24 * time.Hour)
  activities, aErr := g.activityRepo.GetByUserSince(ctx, nil, userID, since)
  if aErr != nil {
    g.log.Warn("Failed to load activity for insights", "error", aErr)
    activities = nil
  }

  consultations, cErr := g.consultationRepo.GetByUserID(ctx, nil, userID, 5)
  if cErr != nil {
    g.log.Warn("Failed to load consultations for insights", "error", cErr)
    consultations = nil
  }
  symptomHistory := make([]string, 0, len(consultations))
  for _, c := range consultations {
    symptomHistory = append(symptomHistory, c.Symptoms)
  }

  userData, _ := json.Marshal(map[string]any{
    "profile": map[string]any{
      "age":                user.Age,
      "gender":             user.Gender,
      "medical_conditions": user.MedicalConditions,
      "medications":        user.Medications,
      "fitness_level":      user.FitnessLevel,
    },
    "activity_patterns":    len(activities),
    "consultation_history": symptomHistory,
  })

  prompt := fmt.Sprintf(`User Data: %s

Generate 2-4 predictive health insights focusing on:
1. Wellness trends and patterns
2. Potential health risks to monitor
3. Preventive care recommendations
4. Lifestyle optimization suggestions

Insight types: health_risk, wellness_trend, preventive_care, lifestyle_optimization
Priority levels: low, medium, high, critical`, string(userData))

  raw, err := g.llmClient.GenerateJSON(ctx, insightSystemPrompt, prompt)
  if err != nil {
    g.log.Warn("Insight generation failed, returning empty set", "error", err)
    return []types.InsightDraft{}
  }

  var drafts []types.InsightDraft
  if err := json.Unmarshal(raw, &drafts); err != nil {
    g.log.Warn("Insight decode failed, returning empty set", "error", err)
    return []types.InsightDraft{}
  }

  for i := range drafts {
    if drafts[i].Type == "" {
      drafts[i].Type = "wellness_trend"
    }
    drafts[i].Priority = normalizePriority(drafts[i].Priority)
    if drafts[i].Confidence == 0 {
      drafts[i].Confidence = 0.5
    }
    drafts[i].Confidence = clampConfidence(drafts[i].Confidence)
  }
  return drafts
}

func (g *aiGateway) categoryActivitySummary(ctx context.Context, userID uuid.UUID, window time.Duration) map[string]int {
  summary := make(map[string]int)

  activities, aErr := g.activityRepo.GetByUserSince(ctx, nil, userID, time.Now().Add(-window))
  if aErr != nil {
    g.log.Warn("Failed to load activity summary", "error", aErr)
    return summary
  }

  var contentIDs []uuid.UUID
  for _, a := range activities {
    if a.ContentID != nil {
      contentIDs = append(contentIDs, *a.ContentID)
    }
  }
  contents, cErr := g.contentRepo.GetByIDs(ctx, nil, contentIDs)
  if cErr != nil {
    return summary
  }
  categoryByID := make(map[uuid.UUID]string, len(contents))
  for _, c := range contents {
    categoryByID[c.ID] = c.Category
  }
  for _, a := range activities {
    if a.ContentID == nil {
      continue
    }
    if category, ok := categoryByID[*a.ContentID]; ok {
      summary[category]++
    }
  }
  return summary
}

// decodeRecommendationList accepts either a bare array or an object
// wrapping one under "recommendations".
func decodeRecommendationList(raw json.RawMessage) []types.HealthRecommendation {
  var list []types.HealthRecommendation
  if err := json.Unmarshal(raw, &list); err == nil {
    return list
  }
  var wrapped struct {
    Recommendations []types.HealthRecommendation `json:"recommendations"`
  }
  if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Recommendations != nil {
    return wrapped.Recommendations
  }
  return nil
}

func normalizePriority(priority string) string {
  switch priority {
  case types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityCritical:
    return priority
  default:
    return types.PriorityMedium
  }
}

func normalizeSeverity(severity string) string {
  switch severity {
  case types.SeverityLow, types.SeverityModerate, types.SeverityHigh, types.SeverityCritical:
    return severity
  default:
    return types.SeverityUnknown
  }
}

func clampConfidence(confidence float64) float64 {
  if confidence < 0 {
    return 0
  }
  if confidence > 1 {
    return 1
  }
  return confidence
}

func orNone(value string) string {
  if value == "" {
    return "none"
  }
  return value
}
