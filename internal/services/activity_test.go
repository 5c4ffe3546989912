package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careloop/careloop-backend/internal/repos"
	"github.com/careloop/careloop-backend/internal/sse"
	"github.com/careloop/careloop-backend/internal/types"
)

type capturePublisher struct {
	mu       sync.Mutex
	messages []sse.SSEMessage
}

func (cp *capturePublisher) Publish(msg sse.SSEMessage) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.messages = append(cp.messages, msg)
}

func (cp *capturePublisher) Messages() []sse.SSEMessage {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return append([]sse.SSEMessage{}, cp.messages...)
}

func newTestActivityService(t *testing.T, db *gorm.DB, publisher sse.Publisher) ActivityService {
	t.Helper()
	log := testLogger(t)
	activityRepo := repos.NewUserActivityRepo(db, log)
	return NewActivityService(log, activityRepo, newTestRecommendationService(t, db), publisher)
}

func TestTrackPersistsActivity(t *testing.T) {
	db := openTestDB(t)
	svc := newTestActivityService(t, db, nil)
	age := 30
	user := seedUser(t, db, &age, "", "")

	query := "back pain"
	svc.Track(context.Background(), user.ID, TrackInput{
		ActivityType: "search",
		SearchQuery:  &query,
		Metadata:     map[string]any{"source": "navbar"},
	})

	var activities []types.UserActivity
	if err := db.Where("user_id = ?", user.ID).Find(&activities).Error; err != nil {
		t.Fatalf("load activities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("found %d activity rows, want 1", len(activities))
	}
	got := activities[0]
	if got.ActivityType != "search" {
		t.Fatalf("ActivityType=%q, want search", got.ActivityType)
	}
	if got.SearchQuery == nil || *got.SearchQuery != query {
		t.Fatalf("SearchQuery=%v, want %q", got.SearchQuery, query)
	}
	if len(got.Metadata) == 0 {
		t.Fatal("Metadata empty, want recorded payload")
	}
}

func TestTrackIgnoresEmptyType(t *testing.T) {
	db := openTestDB(t)
	svc := newTestActivityService(t, db, nil)
	age := 30
	user := seedUser(t, db, &age, "", "")

	svc.Track(context.Background(), user.ID, TrackInput{})

	var count int64
	if err := db.Model(&types.UserActivity{}).Count(&count).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	if count != 0 {
		t.Fatalf("activity rows=%d, want 0", count)
	}
}

func TestTrackViewPushesQuickRecommendations(t *testing.T) {
	db := openTestDB(t)
	publisher := &capturePublisher{}
	svc := newTestActivityService(t, db, publisher)

	age := 30
	user := seedUser(t, db, &age, "", "")
	viewed := seedContent(t, db, "fitness", "video", 5, time.Now())
	seedContent(t, db, "fitness", "video", 3, time.Now())

	svc.Track(context.Background(), user.ID, TrackInput{
		ActivityType: "view",
		ContentID:    &viewed.ID,
	})

	messages := publisher.Messages()
	if len(messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(messages))
	}
	msg := messages[0]
	if msg.Event != sse.SSEEventQuickRecommendations {
		t.Fatalf("event=%q, want %q", msg.Event, sse.SSEEventQuickRecommendations)
	}
	if msg.Channel != sse.UserChannel(user.ID) {
		t.Fatalf("channel=%q, want %q", msg.Channel, sse.UserChannel(user.ID))
	}
}

func TestTrackSearchDoesNotPush(t *testing.T) {
	db := openTestDB(t)
	publisher := &capturePublisher{}
	svc := newTestActivityService(t, db, publisher)
	age := 30
	user := seedUser(t, db, &age, "", "")

	query := "sleep"
	svc.Track(context.Background(), user.ID, TrackInput{ActivityType: "search", SearchQuery: &query})

	if got := publisher.Messages(); len(got) != 0 {
		t.Fatalf("published %d messages for search, want 0", len(got))
	}
}

func TestCountsByType(t *testing.T) {
	db := openTestDB(t)
	svc := newTestActivityService(t, db, nil)
	age := 30
	user := seedUser(t, db, &age, "", "")
	content := seedContent(t, db, "fitness", "video", 1, time.Now())

	ctx := context.Background()
	svc.Track(ctx, user.ID, TrackInput{ActivityType: "view", ContentID: &content.ID})
	svc.Track(ctx, user.ID, TrackInput{ActivityType: "view", ContentID: &content.ID})
	svc.Track(ctx, user.ID, TrackInput{ActivityType: "login"})

	counts, err := svc.CountsByType(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountsByType: %v", err)
	}
	if counts["view"] != 2 || counts["login"] != 1 {
		t.Fatalf("counts=%v, want view:2 login:1", counts)
	}

	if _, err := svc.CountsByType(ctx, uuid.New()); err != nil {
		t.Fatalf("CountsByType unknown user: %v", err)
	}
}
