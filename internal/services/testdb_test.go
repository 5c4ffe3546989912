package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/careloop/careloop-backend/internal/logger"
)

// openTestDB opens an in-memory sqlite database with the production
// schema minus the postgres-only defaults; IDs are assigned in Go so no
// uuid function is needed server-side.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := []string{
		`DROP TABLE IF EXISTS user_rating`,
		`DROP TABLE IF EXISTS user_bookmark`,
		`DROP TABLE IF EXISTS user_activity`,
		`DROP TABLE IF EXISTS consultation`,
		`DROP TABLE IF EXISTS predictive_insight`,
		`DROP TABLE IF EXISTS health_content`,
		`DROP TABLE IF EXISTS user_token`,
		`DROP TABLE IF EXISTS user`,
		`CREATE TABLE user (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL DEFAULT '',
			full_name TEXT NOT NULL DEFAULT '',
			age INTEGER,
			gender TEXT,
			phone TEXT,
			medical_conditions TEXT,
			medications TEXT,
			allergies TEXT,
			emergency_contact TEXT,
			fitness_level TEXT,
			health_goals TEXT,
			preferred_content_types TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE user_token (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at DATETIME,
			created_at DATETIME
		)`,
		`CREATE TABLE health_content (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content_type TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			content_url TEXT,
			image_url TEXT,
			tags TEXT,
			difficulty_level TEXT,
			duration_minutes INTEGER,
			target_age_min INTEGER,
			target_age_max INTEGER,
			target_conditions TEXT,
			popularity_score REAL NOT NULL DEFAULT 0,
			created_at DATETIME
		)`,
		`CREATE TABLE user_activity (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			content_id TEXT,
			search_query TEXT,
			duration_seconds INTEGER,
			metadata TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE user_rating (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			content_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			review TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE UNIQUE INDEX ux_user_rating_user_content ON user_rating(user_id, content_id)`,
		`CREATE TABLE user_bookmark (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			content_id TEXT NOT NULL,
			created_at DATETIME
		)`,
		`CREATE UNIQUE INDEX ux_user_bookmark_user_content ON user_bookmark(user_id, content_id)`,
		`CREATE TABLE consultation (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			symptoms TEXT NOT NULL,
			analysis_result TEXT,
			extracted_entities TEXT,
			severity_level TEXT,
			confidence_score REAL,
			created_at DATETIME
		)`,
		`CREATE TABLE predictive_insight (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			insight_type TEXT NOT NULL,
			title TEXT,
			description TEXT,
			confidence_score REAL,
			priority_level TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("test schema: %v", err)
		}
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}
