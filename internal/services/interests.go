package services

import (
  "context"
  "fmt"
  "sort"
  "strings"
  "time"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/apperr"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

// Lookback window for behavioral signals.
const interestWindow = 30 * 24 * time.Hour

// topInterestCount bounds how many frequency-derived categories and
// content types enter the profile.
const topInterestCount = 3

// ConditionPolicy maps free-text medical conditions to content
// categories. It is an interface so the keyword table can be swapped
// without touching the recommendation path.
type ConditionPolicy interface {
  Categories(conditions string) []string
}

type lexiconRule struct {
  keywords []string
  category string
}

// KeywordLexicon is the default ConditionPolicy: ordered substring
// rules over the lowercased conditions text. One category is appended
// per matching rule, in rule order.
type KeywordLexicon struct {
  rules []lexiconRule
}

func NewKeywordLexicon() *KeywordLexicon {
  return &KeywordLexicon{
    rules: []lexiconRule{
      {keywords: []string{"diabetes"}, category: "endocrinology"},
      {keywords: []string{"heart", "cardiac"}, category: "cardiology"},
      {keywords: []string{"mental", "anxiety", "depression"}, category: "mental_health"},
      {keywords: []string{"weight", "obesity"}, category: "nutrition"},
    },
  }
}

func (kl *KeywordLexicon) Categories(conditions string) []string {
  conditions = strings.ToLower(conditions)
  var matched []string
  for _, rule := range kl.rules {
    for _, kw := range rule.keywords {
      if strings.Contains(conditions, kw) {
        matched = append(matched, rule.category)
        break
      }
    }
  }
  return matched
}

// AgeGroupForAge buckets an age by fixed thresholds.
func AgeGroupForAge(age int) string {
  switch {
  case age < 30:
    return types.AgeGroupYoungAdult
  case age < 50:
    return types.AgeGroupAdult
  case age < 65:
    return types.AgeGroupMiddleAged
  default:
    return types.AgeGroupSenior
  }
}

type InterestService interface {
  BuildInterests(ctx context.Context, userID uuid.UUID) (*types.InterestProfile, error)
}

type interestService struct {
  log          *logger.Logger
  userRepo     repos.UserRepo
  activityRepo repos.UserActivityRepo
  contentRepo  repos.HealthContentRepo
  policy       ConditionPolicy
}

func NewInterestService(
  log *logger.Logger,
  userRepo repos.UserRepo,
  activityRepo repos.UserActivityRepo,
  contentRepo repos.HealthContentRepo,
  policy ConditionPolicy,
) InterestService {
  serviceLog := log.With("service", "InterestService")
  if policy == nil {
    policy = NewKeywordLexicon()
  }
  return &interestService{
    log:          serviceLog,
    userRepo:     userRepo,
    activityRepo: activityRepo,
    contentRepo:  contentRepo,
    policy:       policy,
  }
}

// BuildInterests derives a profile from the user row and the last 30
// days of activity. It never reads or writes any cached profile state.
func (is *interestService) BuildInterests(ctx context.Context, userID uuid.UUID) (*types.InterestProfile, error) {
  users, uErr := is.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    return nil, fmt.Errorf("Failed to load user for interests: %w", uErr)
  }
  if len(users) == 0 {
    return nil, apperr.ErrNotFound
  }
  user := users[0]

  if user.Age == nil {
    return nil, fmt.Errorf("user %s has no age: %w", userID, apperr.ErrInvalidProfile)
  }

  profile := &types.InterestProfile{
    Categories:   []string{},
    ContentTypes: []string{},
    AgeGroup:     AgeGroupForAge(*user.Age),
    FitnessLevel: user.FitnessLevel,
  }
  if profile.FitnessLevel == "" {
    profile.FitnessLevel = "beginner"
  }

  // Keyword pass first; frequency-derived entries are appended after,
  // duplicates and all.
  profile.Categories = append(profile.Categories, is.policy.Categories(user.MedicalConditions)...)

  since := time.Now().Add(-interestWindow)
  activities, aErr := is.activityRepo.GetByUserSince(ctx, nil, userID, since)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to load activity window: %w", aErr)
  }

  var contentIDs []uuid.UUID
  seen := make(map[uuid.UUID]bool)
  for _, a := range activities {
    if a.ContentID == nil || seen[*a.ContentID] {
      continue
    }
    seen[*a.ContentID] = true
    contentIDs = append(contentIDs, *a.ContentID)
  }

  contentByID := make(map[uuid.UUID]*types.HealthContent, len(contentIDs))
  if len(contentIDs) > 0 {
    contents, cErr := is.contentRepo.GetByIDs(ctx, nil, contentIDs)
    if cErr != nil {
      return nil, fmt.Errorf("Failed to resolve activity content: %w", cErr)
    }
    for _, c := range contents {
      contentByID[c.ID] = c
    }
  }

  categoryTally := newFrequencyTally()
  typeTally := newFrequencyTally()
  for _, a := range activities {
    if a.ContentID == nil {
      continue
    }
    content, ok := contentByID[*a.ContentID]
    if !ok {
      continue
    }
    categoryTally.Add(content.Category)
    typeTally.Add(content.ContentType)
  }

  profile.Categories = append(profile.Categories, categoryTally.Top(topInterestCount)...)
  profile.ContentTypes = append(profile.ContentTypes, typeTally.Top(topInterestCount)...)

  is.log.Debug("Built interest profile", "userID", userID,
    "categories", profile.Categories, "contentTypes", profile.ContentTypes)
  return profile, nil
}

// frequencyTally counts values while remembering first-seen order so
// ranking ties break deterministically toward the earlier value.
type frequencyTally struct {
  counts map[string]int
  order  map[string]int
  next   int
}

func newFrequencyTally() *frequencyTally {
  return &frequencyTally{
    counts: make(map[string]int),
    order:  make(map[string]int),
  }
}

func (ft *frequencyTally) Add(value string) {
  if value == "" {
    return
  }
  if _, ok := ft.counts[value]; !ok {
    ft.order[value] = ft.next
    ft.next++
  }
  ft.counts[value]++
}

func (ft *frequencyTally) Top(n int) []string {
  values := make([]string, 0, len(ft.counts))
  for v := range ft.counts {
    values = append(values, v)
  }
  sort.Slice(values, func(i, j int) bool {
    if ft.counts[values[i]] != ft.counts[values[j]] {
      return ft.counts[values[i]] > ft.counts[values[j]]
    }
    return ft.order[values[i]] < ft.order[values[j]]
  })
  if len(values) > n {
    values = values[:n]
  }
  return values
}
