package services

import (
  "context"
  "fmt"
  "strings"
  "github.com/google/uuid"
  "github.com/careloop/careloop-backend/internal/apperr"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

const (
  relatedContentLimit     = 4
  suggestionTitleLimit    = 5
  suggestionCategoryLimit = 3
  suggestionCap           = 8
)

// SearchSuggestion is one typeahead entry: a matching catalog title or
// a matching category.
type SearchSuggestion struct {
  Text     string `json:"text"`
  Type     string `json:"type"`
  Category string `json:"category"`
}

// UserEngagement is a user's standing rating and bookmark state for one
// catalog entry.
type UserEngagement struct {
  Rating     *types.UserRating `json:"rating,omitempty"`
  Bookmarked bool              `json:"bookmarked"`
}

type ContentService interface {
  Get(ctx context.Context, contentID uuid.UUID) (*types.HealthContent, error)
  Engagement(ctx context.Context, userID, contentID uuid.UUID) (*UserEngagement, error)
  Related(ctx context.Context, contentID uuid.UUID) ([]*types.HealthContent, error)
  Featured(ctx context.Context, limit int) ([]*types.HealthContent, error)
  Search(ctx context.Context, query, category, contentType string) ([]*types.HealthContent, error)
  Suggestions(ctx context.Context, query string) ([]SearchSuggestion, error)
  Categories(ctx context.Context) ([]string, error)
  ContentTypes(ctx context.Context) ([]string, error)
  Rate(ctx context.Context, userID, contentID uuid.UUID, rating int, review string) error
  ToggleBookmark(ctx context.Context, userID, contentID uuid.UUID) (string, error)
  Bookmarks(ctx context.Context, userID uuid.UUID, limit int) ([]*types.HealthContent, error)
}

type contentService struct {
  log          *logger.Logger
  contentRepo  repos.HealthContentRepo
  ratingRepo   repos.UserRatingRepo
  bookmarkRepo repos.UserBookmarkRepo
}

func NewContentService(
  log *logger.Logger,
  contentRepo repos.HealthContentRepo,
  ratingRepo repos.UserRatingRepo,
  bookmarkRepo repos.UserBookmarkRepo,
) ContentService {
  serviceLog := log.With("service", "ContentService")
  return &contentService{
    log:          serviceLog,
    contentRepo:  contentRepo,
    ratingRepo:   ratingRepo,
    bookmarkRepo: bookmarkRepo,
  }
}

func (cs *contentService) Get(ctx context.Context, contentID uuid.UUID) (*types.HealthContent, error) {
  contents, err := cs.contentRepo.GetByIDs(ctx, nil, []uuid.UUID{contentID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load content: %w", err)
  }
  if len(contents) == 0 {
    return nil, apperr.ErrNotFound
  }
  return contents[0], nil
}

func (cs *contentService) Engagement(ctx context.Context, userID, contentID uuid.UUID) (*UserEngagement, error) {
  rating, rErr := cs.ratingRepo.GetByUserAndContent(ctx, nil, userID, contentID)
  if rErr != nil {
    return nil, fmt.Errorf("Failed to load rating: %w", rErr)
  }
  bookmark, bErr := cs.bookmarkRepo.GetByUserAndContent(ctx, nil, userID, contentID)
  if bErr != nil {
    return nil, fmt.Errorf("Failed to load bookmark: %w", bErr)
  }
  return &UserEngagement{Rating: rating, Bookmarked: bookmark != nil}, nil
}

func (cs *contentService) Related(ctx context.Context, contentID uuid.UUID) ([]*types.HealthContent, error) {
  content, err := cs.Get(ctx, contentID)
  if err != nil {
    return nil, err
  }
  return cs.contentRepo.ListRelated(ctx, nil, content.Category, contentID, relatedContentLimit)
}

func (cs *contentService) Featured(ctx context.Context, limit int) ([]*types.HealthContent, error) {
  if limit <= 0 {
    limit = 6
  }
  return cs.contentRepo.ListTopByPopularity(ctx, nil, limit)
}

func (cs *contentService) Search(ctx context.Context, query, category, contentType string) ([]*types.HealthContent, error) {
  return cs.contentRepo.Search(ctx, nil, strings.TrimSpace(query), category, contentType)
}

// Suggestions builds typeahead entries for a partial query: matching
// titles first, then matching categories, capped at suggestionCap.
// Queries shorter than two characters yield no suggestions.
func (cs *contentService) Suggestions(ctx context.Context, query string) ([]SearchSuggestion, error) {
  query = strings.ToLower(strings.TrimSpace(query))
  suggestions := []SearchSuggestion{}
  if len(query) < 2 {
    return suggestions, nil
  }

  contents, tErr := cs.contentRepo.MatchTitles(ctx, nil, query, suggestionTitleLimit)
  if tErr != nil {
    return nil, fmt.Errorf("Failed to match titles: %w", tErr)
  }
  for _, content := range contents {
    suggestions = append(suggestions, SearchSuggestion{
      Text:     content.Title,
      Type:     "content",
      Category: content.Category,
    })
  }

  categories, cErr := cs.contentRepo.MatchCategories(ctx, nil, query, suggestionCategoryLimit)
  if cErr != nil {
    return nil, fmt.Errorf("Failed to match categories: %w", cErr)
  }
  for _, category := range categories {
    suggestions = append(suggestions, SearchSuggestion{
      Text:     categoryDisplayName(category),
      Type:     "category",
      Category: category,
    })
  }

  if len(suggestions) > suggestionCap {
    suggestions = suggestions[:suggestionCap]
  }
  return suggestions, nil
}

// categoryDisplayName turns a stored slug like "mental_health" into
// "Mental Health" for display.
func categoryDisplayName(category string) string {
  words := strings.Split(strings.ReplaceAll(category, "_", " "), " ")
  for i, word := range words {
    if word == "" {
      continue
    }
    words[i] = strings.ToUpper(word[:1]) + word[1:]
  }
  return strings.Join(words, " ")
}

func (cs *contentService) Categories(ctx context.Context) ([]string, error) {
  return cs.contentRepo.DistinctCategories(ctx, nil)
}

func (cs *contentService) ContentTypes(ctx context.Context) ([]string, error) {
  return cs.contentRepo.DistinctContentTypes(ctx, nil)
}

// Rate upserts the user's rating for the content. At most one rating
// per (user, content) pair exists; a second call overwrites the first.
func (cs *contentService) Rate(ctx context.Context, userID, contentID uuid.UUID, rating int, review string) error {
  if rating < 1 || rating > 5 {
    return fmt.Errorf("rating must be between 1 and 5: %w", apperr.ErrInvalidInput)
  }
  if _, err := cs.Get(ctx, contentID); err != nil {
    return err
  }
  return cs.ratingRepo.Upsert(ctx, nil, &types.UserRating{
    ID:        uuid.New(),
    UserID:    userID,
    ContentID: contentID,
    Rating:    rating,
    Review:    review,
  })
}

// ToggleBookmark flips the bookmark for (user, content) and reports
// which way it went: "added" or "removed".
func (cs *contentService) ToggleBookmark(ctx context.Context, userID, contentID uuid.UUID) (string, error) {
  if _, err := cs.Get(ctx, contentID); err != nil {
    return "", err
  }

  existing, gErr := cs.bookmarkRepo.GetByUserAndContent(ctx, nil, userID, contentID)
  if gErr != nil {
    return "", fmt.Errorf("Failed to load bookmark: %w", gErr)
  }
  if existing != nil {
    if dErr := cs.bookmarkRepo.DeleteByUserAndContent(ctx, nil, userID, contentID); dErr != nil {
      return "", fmt.Errorf("Failed to remove bookmark: %w", dErr)
    }
    return "removed", nil
  }
  if cErr := cs.bookmarkRepo.Create(ctx, nil, &types.UserBookmark{
    ID:        uuid.New(),
    UserID:    userID,
    ContentID: contentID,
  }); cErr != nil {
    return "", fmt.Errorf("Failed to add bookmark: %w", cErr)
  }
  return "added", nil
}

func (cs *contentService) Bookmarks(ctx context.Context, userID uuid.UUID, limit int) ([]*types.HealthContent, error) {
  bookmarks, bErr := cs.bookmarkRepo.GetByUserID(ctx, nil, userID, limit)
  if bErr != nil {
    return nil, fmt.Errorf("Failed to load bookmarks: %w", bErr)
  }

  contentIDs := make([]uuid.UUID, 0, len(bookmarks))
  for _, b := range bookmarks {
    contentIDs = append(contentIDs, b.ContentID)
  }
  contents, cErr := cs.contentRepo.GetByIDs(ctx, nil, contentIDs)
  if cErr != nil {
    return nil, fmt.Errorf("Failed to load bookmarked content: %w", cErr)
  }

  // Preserve bookmark order.
  byID := make(map[uuid.UUID]*types.HealthContent, len(contents))
  for _, c := range contents {
    byID[c.ID] = c
  }
  ordered := make([]*types.HealthContent, 0, len(bookmarks))
  for _, b := range bookmarks {
    if c, ok := byID[b.ContentID]; ok {
      ordered = append(ordered, c)
    }
  }
  return ordered, nil
}
