package types

// Typed result records for the external AI gateway. Responses from the
// upstreams are validated into these shapes at the gateway boundary;
// untyped maps never cross into services or storage.

type MedicalEntity struct {
  Text       string  `json:"text"`
  Label      string  `json:"label"`
  Confidence float64 `json:"confidence"`
}

type ContentLabel struct {
  Label string  `json:"label"`
  Score float64 `json:"score"`
}

// Severity levels a SymptomAnalysis may carry.
const (
  SeverityLow      = "low"
  SeverityModerate = "moderate"
  SeverityHigh     = "high"
  SeverityCritical = "critical"
  SeverityUnknown  = "unknown"
)

// Priority levels a persisted insight may carry.
const (
  PriorityLow      = "low"
  PriorityMedium   = "medium"
  PriorityHigh     = "high"
  PriorityCritical = "critical"
)

type SymptomAnalysis struct {
  Condition       string   `json:"condition"`
  Severity        string   `json:"severity"`
  Confidence      float64  `json:"confidence"`
  Recommendations []string `json:"recommendations"`
}

type HealthRecommendation struct {
  Title       string  `json:"title"`
  Description string  `json:"description"`
  Category    string  `json:"category"`
  Priority    string  `json:"priority"`
  Confidence  float64 `json:"confidence"`
}

// InsightDraft is the gateway-side shape of a generated insight; the
// caller persists drafts as PredictiveInsight rows.
type InsightDraft struct {
  Type        string  `json:"type"`
  Title       string  `json:"title"`
  Description string  `json:"description"`
  Confidence  float64 `json:"confidence"`
  Priority    string  `json:"priority"`
}
