package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/logger"
	"github.com/habita/habita/internal/migration"
	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/validation"
	"github.com/habita/habita/migrations"
)

// PostgresStore is a shared-database backend, selected by a
// postgres:// connection string. Credentials come from the environment,
// .pgpass, or the OS keyring, never from the connection string itself.
type PostgresStore struct {
	connStr string
	db      *sql.DB
	bus     *events.Bus
}

func NewPostgresStore(connStr string, bus *events.Bus) *PostgresStore {
	return &PostgresStore{connStr: connStr, bus: bus}
}

// HasEmbeddedCredentials reports whether a postgres:// URL carries a
// password inline.
func HasEmbeddedCredentials(connStr string) bool {
	if !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
		return false
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	if u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

func (s *PostgresStore) publish(kind events.Kind) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: kind})
	}
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
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

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).Validate()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(func(msg string) { logger.Info(msg) })
	return err
}

// Settings

func (s *PostgresStore) GetSettings() (models.Settings, error) {
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
			var raw int
			if _, err := fmt.Sscanf(value, "%d", &raw); err == nil && models.FilterMode(raw).Valid() {
				settings.FilterMode = models.FilterMode(raw)
			}
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

func (s *PostgresStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	pairs := [][2]string{
		{constants.SettingFilterMode, fmt.Sprintf("%d", int(settings.FilterMode))},
		{constants.SettingOnboardingCompleted, fmt.Sprintf("%t", settings.OnboardingCompleted)},
		{constants.SettingTimezone, settings.Timezone},
	}
	for _, kv := range pairs {
		if _, err := stmt.Exec(kv[0], kv[1]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.publish(events.SettingsChanged)
	return nil
}

// Categories

func (s *PostgresStore) AddCategory(cat models.Category) error {
	existing, err := s.GetAllCategories()
	if err != nil {
		return err
	}
	if err := validation.CategoryTitle(cat.Title, existing, ""); err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO categories (id, title, created_at) VALUES ($1, $2, $3)",
		cat.ID, cat.Title, cat.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *PostgresStore) GetCategory(id string) (models.Category, error) {
	return s.getCategory("id = $1", id)
}

func (s *PostgresStore) GetCategoryByTitle(title string) (models.Category, error) {
	return s.getCategory("title = $1", title)
}

func (s *PostgresStore) getCategory(where, arg string) (models.Category, error) {
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

func (s *PostgresStore) GetAllCategories() ([]models.Category, error) {
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

func (s *PostgresStore) RenameCategory(id, title string) error {
	existing, err := s.GetAllCategories()
	if err != nil {
		return err
	}
	if err := validation.CategoryTitle(title, existing, id); err != nil {
		return err
	}
	result, err := s.db.Exec("UPDATE categories SET title = $1 WHERE id = $2", title, id)
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

func (s *PostgresStore) DeleteCategory(id string) error {
	result, err := s.db.Exec("DELETE FROM categories WHERE id = $1", id)
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

func (s *PostgresStore) trackersForCategory(categoryID string) ([]models.Tracker, error) {
	rows, err := s.db.Query(`
		SELECT id, category_id, name, emoji, color, schedule, created_at
		FROM trackers WHERE category_id = $1 ORDER BY created_at, name`, categoryID)
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

func (s *PostgresStore) AddTracker(t models.Tracker, categoryID string) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, categoryID, t.Name, t.Emoji, t.Color, scheduleJSON, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *PostgresStore) GetTracker(id string) (models.Tracker, string, error) {
	row := s.db.QueryRow(`
		SELECT id, category_id, name, emoji, color, schedule, created_at
		FROM trackers WHERE id = $1`, id)
	t, categoryID, err := scanTracker(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tracker{}, "", fmt.Errorf("%w: tracker %s", validation.ErrNotFound, id)
		}
		return models.Tracker{}, "", err
	}
	return t, categoryID, nil
}

func (s *PostgresStore) GetTrackerByName(name string) (models.Tracker, string, error) {
	row := s.db.QueryRow(`
		SELECT id, category_id, name, emoji, color, schedule, created_at
		FROM trackers WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
	t, categoryID, err := scanTracker(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tracker{}, "", fmt.Errorf("%w: tracker %q", validation.ErrNotFound, name)
		}
		return models.Tracker{}, "", err
	}
	return t, categoryID, nil
}

func (s *PostgresStore) UpdateTracker(t models.Tracker, categoryID string) error {
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
		UPDATE trackers SET category_id = $1, name = $2, emoji = $3, color = $4, schedule = $5
		WHERE id = $6`,
		categoryID, t.Name, t.Emoji, t.Color, scheduleJSON, t.ID)
	if err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *PostgresStore) DeleteTracker(id string) error {
	result, err := s.db.Exec("DELETE FROM trackers WHERE id = $1", id)
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

// Completion records

func (s *PostgresStore) AddRecord(rec models.CompletionRecord) error {
	_, err := s.db.Exec(
		"INSERT INTO records (tracker_id, day) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		rec.TrackerID, rec.Day)
	if err != nil {
		return err
	}
	s.publish(events.RecordsChanged)
	return nil
}

func (s *PostgresStore) DeleteRecord(trackerID, day string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE tracker_id = $1 AND day = $2", trackerID, day)
	if err != nil {
		return err
	}
	s.publish(events.RecordsChanged)
	return nil
}

func (s *PostgresStore) GetAllRecords() ([]models.CompletionRecord, error) {
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

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

var (
	_ Provider = (*SQLiteStore)(nil)
	_ Provider = (*JSONStore)(nil)
	_ Provider = (*PostgresStore)(nil)
)
