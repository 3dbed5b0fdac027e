package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sqlx.DB
}

// Execer is satisfied by both *sqlx.DB and *sqlx.Tx, so write paths can run
// inside or outside a transaction.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// NewDB creates a new database connection
func NewDB(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "nindo.db" // Default SQLite file
	}

	db, err := sqlx.Connect("sqlite3", databaseURL+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db}

	// Initialize database schema
	if err := dbWrapper.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return dbWrapper, nil
}

// createTables creates the necessary database tables
func (db *DB) createTables() error {
	// Single-row profile and progress table
	prefsTable := `
	CREATE TABLE IF NOT EXISTS user_preferences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		onboarding_completed BOOLEAN DEFAULT FALSE,
		first_name TEXT DEFAULT '',
		username TEXT DEFAULT 'Ninja',
		favorite_animes TEXT DEFAULT '[]',
		selected_moods TEXT DEFAULT '[]',
		chakra_color TEXT DEFAULT '#FF6B35',
		theme TEXT DEFAULT 'light',
		quote_font_family TEXT DEFAULT 'default',
		app_font_family TEXT DEFAULT 'default',
		reminder_time TEXT DEFAULT '08:00',
		mood_reminder_enabled BOOLEAN DEFAULT TRUE,
		mood_reminder_frequency TEXT DEFAULT 'daily',
		streak_reminder_enabled BOOLEAN DEFAULT TRUE,
		quote_notifications_enabled BOOLEAN DEFAULT FALSE,
		quote_notifications_count INTEGER DEFAULT 1,
		last_opening_date DATETIME,
		streak_count INTEGER DEFAULT 0,
		best_streak INTEGER DEFAULT 0,
		total_days_opened INTEGER DEFAULT 0,
		xp INTEGER DEFAULT 0,
		last_mood_date TEXT DEFAULT '',
		current_day_mood TEXT DEFAULT ''
	);`

	// Append-only streak audit trail, one row per calendar date
	streakTable := `
	CREATE TABLE IF NOT EXISTS streak_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT UNIQUE NOT NULL,
		status TEXT NOT NULL,
		streak_count_at_day INTEGER DEFAULT 0
	);`

	moodTable := `
	CREATE TABLE IF NOT EXISTS mood_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT UNIQUE NOT NULL,
		mood TEXT NOT NULL,
		selected_at DATETIME NOT NULL,
		source TEXT DEFAULT 'app'
	);`

	achievementsTable := `
	CREATE TABLE IF NOT EXISTS achievements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		achievement_id TEXT UNIQUE NOT NULL,
		unlocked_at DATETIME NOT NULL,
		notified BOOLEAN DEFAULT FALSE
	);`

	notificationsTable := `
	CREATE TABLE IF NOT EXISTS notification_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quote_id INTEGER,
		title TEXT DEFAULT '',
		body TEXT DEFAULT '',
		sent_at DATETIME NOT NULL,
		type TEXT NOT NULL,
		is_read BOOLEAN DEFAULT FALSE,
		FOREIGN KEY (quote_id) REFERENCES quotes(id)
	);`

	quotesTable := `
	CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		anime TEXT NOT NULL,
		mood TEXT NOT NULL,
		is_favorite BOOLEAN DEFAULT FALSE,
		is_user_created BOOLEAN DEFAULT FALSE,
		background_image TEXT DEFAULT '',
		font_style TEXT DEFAULT 'default'
	);`

	remindersTable := `
	CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		title TEXT DEFAULT '',
		enabled BOOLEAN DEFAULT TRUE,
		count INTEGER DEFAULT 1,
		start_time TEXT DEFAULT '09:00',
		end_time TEXT DEFAULT '21:00',
		repeat_days TEXT DEFAULT '[1,2,3,4,5,6,7]',
		category TEXT DEFAULT 'General',
		sound TEXT DEFAULT 'default',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_streak_history_date ON streak_history(date);`,
		`CREATE INDEX IF NOT EXISTS idx_mood_history_date ON mood_history(date);`,
		`CREATE INDEX IF NOT EXISTS idx_notification_history_sent_at ON notification_history(sent_at);`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_anime ON quotes(anime);`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_mood ON quotes(mood);`,
	}

	tables := []string{
		prefsTable, streakTable, moodTable,
		achievementsTable, notificationsTable, quotesTable, remindersTable,
	}

	// Execute table creation
	for _, query := range tables {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Create indexes
	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
