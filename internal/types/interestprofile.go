package types

// Age group buckets derived from fixed thresholds.
const (
  AgeGroupYoungAdult = "young_adult"
  AgeGroupAdult      = "adult"
  AgeGroupMiddleAged = "middle_aged"
  AgeGroupSenior     = "senior"
)

// InterestProfile is derived on demand from the user row plus the recent
// activity window. It is never persisted; two calls separated by new
// activity may legitimately differ.
//
// Categories keeps the order entries were appended in and is NOT
// deduplicated: keyword-derived and frequency-derived categories are
// concatenated as-is. Downstream consumers only use it for membership,
// so duplicates carry no weight.
type InterestProfile struct {
  Categories   []string `json:"categories"`
  ContentTypes []string `json:"content_types"`
  AgeGroup     string   `json:"age_group"`
  FitnessLevel string   `json:"fitness_level"`
}
