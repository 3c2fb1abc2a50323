package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/logger"
	"github.com/habita/habita/internal/migration"
	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/validation"
	"github.com/habita/habita/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
	bus  *events.Bus
}

func NewSQLiteStore(path string, bus *events.Bus) *SQLiteStore {
	return &SQLiteStore{path: path, bus: bus}
}

func (s *SQLiteStore) publish(kind events.Kind) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: kind})
	}
}

func (s *SQLiteStore) open() error {
	// Cascading deletes (category -> trackers -> records) need the
	// foreign_keys pragma, which is off by default.
	db, err := sql.Open("sqlite", s.path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default settings on first init
	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{
			FilterMode: constants.DefaultFilterMode,
			Timezone:   constants.DefaultTimezone,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habita init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(func(msg string) { logger.Info(msg) })
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).Validate()
}

// Settings

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{Timezone: constants.DefaultTimezone}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingFilterMode:
			raw, err := strconv.Atoi(value)
			if err != nil || !models.FilterMode(raw).Valid() {
				// Malformed persisted mode degrades to the default.
				logger.Warn("ignoring invalid persisted filter mode", "value", value)
				raw = constants.DefaultFilterMode
			}
			settings.FilterMode = models.FilterMode(raw)
		case constants.SettingOnboardingCompleted:
			settings.OnboardingCompleted = value == "true"
		case constants.SettingTimezone:
			settings.Timezone = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(constants.SettingFilterMode, strconv.Itoa(int(settings.FilterMode))); err != nil {
		return err
	}
	if _, err := stmt.Exec(constants.SettingOnboardingCompleted, strconv.FormatBool(settings.OnboardingCompleted)); err != nil {
		return err
	}
	if _, err := stmt.Exec(constants.SettingTimezone, settings.Timezone); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.publish(events.SettingsChanged)
	return nil
}

// Categories

func (s *SQLiteStore) AddCategory(cat models.Category) error {
	existing, err := s.GetAllCategories()
	if err != nil {
		return err
	}
	if err := validation.CategoryTitle(cat.Title, existing, ""); err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO categories (id, title, created_at) VALUES (?, ?, ?)",
		cat.ID, cat.Title, cat.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *SQLiteStore) GetCategory(id string) (models.Category, error) {
	return s.getCategory("id = ?", id)
}

func (s *SQLiteStore) GetCategoryByTitle(title string) (models.Category, error) {
	return s.getCategory("title = ?", title)
}

func (s *SQLiteStore) getCategory(where, arg string) (models.Category, error) {
	row := s.db.QueryRow("SELECT id, title, created_at FROM categories WHERE "+where, arg)

	var cat models.Category
	var createdAt string
	if err := row.Scan(&cat.ID, &cat.Title, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, fmt.Errorf("%w: category %s", validation.ErrNotFound, arg)
		}
		return models.Category{}, err
	}
	cat.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	trackers, err := s.trackersForCategory(cat.ID)
	if err != nil {
		return models.Category{}, err
	}
	cat.Trackers = trackers
	return cat, nil
}

func (s *SQLiteStore) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, title, created_at FROM categories ORDER BY created_at, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var cat models.Category
		var createdAt string
		if err := rows.Scan(&cat.ID, &cat.Title, &createdAt); err != nil {
			return nil, err
		}
		cat.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range cats {
		trackers, err := s.trackersForCategory(cats[i].ID)
		if err != nil {
			return nil, err
		}
		cats[i].Trackers = trackers
	}
	return cats, nil
}

func (s *SQLiteStore) RenameCategory(id, title string) error {
	existing, err := s.GetAllCategories()
	if err != nil {
		return err
	}
	if err := validation.CategoryTitle(title, existing, id); err != nil {
		return err
	}

	result, err := s.db.Exec("UPDATE categories SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", validation.ErrNotFound, id)
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *SQLiteStore) DeleteCategory(id string) error {
	result, err := s.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", validation.ErrNotFound, id)
	}
	s.publish(events.TrackersChanged)
	return nil
}

// Trackers

func scanTracker(scan func(...any) error) (models.Tracker, string, error) {
	var t models.Tracker
	var categoryID, scheduleJSON, createdAt string
	if err := scan(&t.ID, &categoryID, &t.Name, &t.Emoji, &t.Color, &scheduleJSON, &createdAt); err != nil {
		return models.Tracker{}, "", err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	var days []int
	if err := json.Unmarshal([]byte(scheduleJSON), &days); err != nil {
		logger.Warn("skipping malformed schedule", "tracker", t.ID, "schedule", scheduleJSON)
	} else {
		for _, d := range days {
			t.Schedule = append(t.Schedule, models.WeekDay(d))
		}
		t.Schedule = t.Schedule.Normalized()
	}
	return t, categoryID, nil
}

func (s *SQLiteStore) trackersForCategory(categoryID string) ([]models.Tracker, error) {
	rows, err := s.db.Query(`
		SELECT id, category_id, name, emoji, color, schedule, created_at
		FROM trackers WHERE category_id = ? ORDER BY created_at, name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		t, _, err := scanTracker(rows.Scan)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

func (s *SQLiteStore) AddTracker(t models.Tracker, categoryID string) error {
	cat, err := s.GetCategory(categoryID)
	if err != nil {
		return err
	}
	if err := validation.Tracker(t, cat.Trackers, ""); err != nil {
		return err
	}

	scheduleJSON, err := marshalSchedule(t.Schedule)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO trackers (id, category_id, name, emoji, color, schedule, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, categoryID, t.Name, t.Emoji, t.Color, scheduleJSON, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *SQLiteStore) GetTracker(id string) (models.Tracker, string, error) {
	row := s.db.QueryRow(`
		SELECT id, category_id, name, emoji, color, schedule, created_at
		FROM trackers WHERE id = ?`, id)
	t, categoryID, err := scanTracker(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tracker{}, "", fmt.Errorf("%w: tracker %s", validation.ErrNotFound, id)
		}
		return models.Tracker{}, "", err
	}
	return t, categoryID, nil
}

func (s *SQLiteStore) GetTrackerByName(name string) (models.Tracker, string, error) {
	row := s.db.QueryRow(`
		SELECT id, category_id, name, emoji, color, schedule, created_at
		FROM trackers WHERE name = ? ORDER BY created_at LIMIT 1`, name)
	t, categoryID, err := scanTracker(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tracker{}, "", fmt.Errorf("%w: tracker %q", validation.ErrNotFound, name)
		}
		return models.Tracker{}, "", err
	}
	return t, categoryID, nil
}

func (s *SQLiteStore) UpdateTracker(t models.Tracker, categoryID string) error {
	if _, _, err := s.GetTracker(t.ID); err != nil {
		return err
	}
	cat, err := s.GetCategory(categoryID)
	if err != nil {
		return err
	}
	if err := validation.Tracker(t, cat.Trackers, t.ID); err != nil {
		return err
	}

	scheduleJSON, err := marshalSchedule(t.Schedule)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		UPDATE trackers SET category_id = ?, name = ?, emoji = ?, color = ?, schedule = ?
		WHERE id = ?`,
		categoryID, t.Name, t.Emoji, t.Color, scheduleJSON, t.ID)
	if err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *SQLiteStore) DeleteTracker(id string) error {
	result, err := s.db.Exec("DELETE FROM trackers WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: tracker %s", validation.ErrNotFound, id)
	}
	s.publish(events.TrackersChanged)
	return nil
}

func marshalSchedule(schedule models.Schedule) (string, error) {
	days := make([]int, 0, len(schedule))
	for _, wd := range schedule.Normalized() {
		days = append(days, int(wd))
	}
	data, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schedule: %w", err)
	}
	return string(data), nil
}

// Completion records

func (s *SQLiteStore) AddRecord(rec models.CompletionRecord) error {
	// Primary key (tracker_id, day) keeps completion boolean per day.
	_, err := s.db.Exec(
		"INSERT INTO records (tracker_id, day) VALUES (?, ?) ON CONFLICT DO NOTHING",
		rec.TrackerID, rec.Day)
	if err != nil {
		return err
	}
	s.publish(events.RecordsChanged)
	return nil
}

func (s *SQLiteStore) DeleteRecord(trackerID, day string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE tracker_id = ? AND day = ?", trackerID, day)
	if err != nil {
		return err
	}
	s.publish(events.RecordsChanged)
	return nil
}

func (s *SQLiteStore) GetAllRecords() ([]models.CompletionRecord, error) {
	rows, err := s.db.Query("SELECT tracker_id, day FROM records")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var rec models.CompletionRecord
		if err := rows.Scan(&rec.TrackerID, &rec.Day); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
