package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careloop/careloop-backend/internal/apperr"
	"github.com/careloop/careloop-backend/internal/repos"
	"github.com/careloop/careloop-backend/internal/types"
)

func newTestContentService(t *testing.T, db *gorm.DB) ContentService {
	t.Helper()
	log := testLogger(t)
	return NewContentService(
		log,
		repos.NewHealthContentRepo(db, log),
		repos.NewUserRatingRepo(db, log),
		repos.NewUserBookmarkRepo(db, log),
	)
}

func TestContentGetNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get unknown content err=%v, want ErrNotFound", err)
	}
}

func TestRateValidatesRange(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "")
	content := seedContent(t, db, "fitness", "video", 1, time.Now())

	for _, rating := range []int{0, 6, -1} {
		if err := svc.Rate(context.Background(), user.ID, content.ID, rating, ""); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("Rate(%d) err=%v, want ErrInvalidInput", rating, err)
		}
	}
}

func TestRateUpsertsSingleRow(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "")
	content := seedContent(t, db, "fitness", "video", 1, time.Now())
	ctx := context.Background()

	if err := svc.Rate(ctx, user.ID, content.ID, 3, "decent"); err != nil {
		t.Fatalf("first Rate: %v", err)
	}
	if err := svc.Rate(ctx, user.ID, content.ID, 5, "actually great"); err != nil {
		t.Fatalf("second Rate: %v", err)
	}

	var ratings []types.UserRating
	if err := db.Where("user_id = ? AND content_id = ?", user.ID, content.ID).Find(&ratings).Error; err != nil {
		t.Fatalf("load ratings: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("found %d rating rows, want 1", len(ratings))
	}
	if ratings[0].Rating != 5 || ratings[0].Review != "actually great" {
		t.Fatalf("rating=%d review=%q, want 5/actually great", ratings[0].Rating, ratings[0].Review)
	}
}

func TestToggleBookmarkRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "")
	content := seedContent(t, db, "fitness", "video", 1, time.Now())
	ctx := context.Background()

	action, err := svc.ToggleBookmark(ctx, user.ID, content.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if action != "added" {
		t.Fatalf("first toggle action=%q, want added", action)
	}

	action, err = svc.ToggleBookmark(ctx, user.ID, content.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if action != "removed" {
		t.Fatalf("second toggle action=%q, want removed", action)
	}

	var count int64
	if err := db.Model(&types.UserBookmark{}).
		Where("user_id = ? AND content_id = ?", user.ID, content.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count bookmarks: %v", err)
	}
	if count != 0 {
		t.Fatalf("bookmark rows=%d after double toggle, want 0", count)
	}
}

func TestEngagementReflectsState(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	age := 30
	user := seedUser(t, db, &age, "", "")
	content := seedContent(t, db, "fitness", "video", 1, time.Now())
	ctx := context.Background()

	engagement, err := svc.Engagement(ctx, user.ID, content.ID)
	if err != nil {
		t.Fatalf("Engagement: %v", err)
	}
	if engagement.Rating != nil || engagement.Bookmarked {
		t.Fatalf("fresh engagement=%+v, want empty", engagement)
	}

	if err := svc.Rate(ctx, user.ID, content.ID, 4, ""); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if _, err := svc.ToggleBookmark(ctx, user.ID, content.ID); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}

	engagement, err = svc.Engagement(ctx, user.ID, content.ID)
	if err != nil {
		t.Fatalf("Engagement: %v", err)
	}
	if engagement.Rating == nil || engagement.Rating.Rating != 4 {
		t.Fatalf("engagement rating=%+v, want 4", engagement.Rating)
	}
	if !engagement.Bookmarked {
		t.Fatal("engagement.Bookmarked=false, want true")
	}
}

func TestSearchFilters(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	now := time.Now()

	yoga := seedContent(t, db, "fitness", "video", 5, now)
	if err := db.Model(yoga).Updates(map[string]interface{}{
		"title":       "Morning Yoga Flow",
		"description": "gentle stretching",
	}).Error; err != nil {
		t.Fatalf("update content: %v", err)
	}
	seedContent(t, db, "nutrition", "article", 1, now)

	results, err := svc.Search(context.Background(), "yoga", "", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != yoga.ID {
		t.Fatalf("Search(yoga)=%v, want only the yoga entry", results)
	}

	results, err = svc.Search(context.Background(), "", "nutrition", "")
	if err != nil {
		t.Fatalf("Search by category: %v", err)
	}
	if len(results) != 1 || results[0].Category != "nutrition" {
		t.Fatalf("Search(category=nutrition) returned %v", results)
	}
}

func TestSuggestionsShortQueryEmpty(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	seedContent(t, db, "fitness", "video", 1, time.Now())

	for _, query := range []string{"", "y", "  y  "} {
		suggestions, err := svc.Suggestions(context.Background(), query)
		if err != nil {
			t.Fatalf("Suggestions(%q): %v", query, err)
		}
		if suggestions == nil || len(suggestions) != 0 {
			t.Fatalf("Suggestions(%q)=%v, want empty slice", query, suggestions)
		}
	}
}

func TestSuggestionsMixesTitlesAndCategories(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	now := time.Now()

	content := seedContent(t, db, "mental_health", "article", 5, now)
	if err := db.Model(content).Update("title", "Mental Resilience Basics").Error; err != nil {
		t.Fatalf("update content: %v", err)
	}
	seedContent(t, db, "fitness", "video", 1, now)

	suggestions, err := svc.Suggestions(context.Background(), "MENTAL")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %v", len(suggestions), suggestions)
	}
	title := suggestions[0]
	if title.Type != "content" || title.Text != "Mental Resilience Basics" || title.Category != "mental_health" {
		t.Fatalf("title suggestion=%+v", title)
	}
	category := suggestions[1]
	if category.Type != "category" || category.Text != "Mental Health" || category.Category != "mental_health" {
		t.Fatalf("category suggestion=%+v", category)
	}
}

func TestSuggestionsLimitsTitleMatches(t *testing.T) {
	db := openTestDB(t)
	svc := newTestContentService(t, db)
	now := time.Now()

	for i := 0; i < 7; i++ {
		content := seedContent(t, db, "fitness", "video", float64(i), now)
		if err := db.Model(content).Update("title", "Strength Session "+content.ID.String()[:4]).Error; err != nil {
			t.Fatalf("update content: %v", err)
		}
	}

	suggestions, err := svc.Suggestions(context.Background(), "strength")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	titleCount := 0
	for _, s := range suggestions {
		if s.Type == "content" {
			titleCount++
		}
	}
	if titleCount != suggestionTitleLimit {
		t.Fatalf("got %d title suggestions, want %d", titleCount, suggestionTitleLimit)
	}
	if len(suggestions) > suggestionCap {
		t.Fatalf("got %d suggestions, want at most %d", len(suggestions), suggestionCap)
	}
}
