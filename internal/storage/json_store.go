package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/logger"
	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/validation"
)

// jsonStoreVersion is the envelope version of the JSON file format.
const jsonStoreVersion = 1

type jsonEnvelope struct {
	Version    int                       `json:"version"`
	Settings   models.Settings           `json:"settings"`
	Categories []models.Category         `json:"categories"`
	Records    []models.CompletionRecord `json:"records"`
}

// JSONStore is a single-file JSON backend, selected by a .json config
// path. Handy for debugging and for tests; semantics match the SQLite
// backend.
type JSONStore struct {
	path string
	bus  *events.Bus
	data *jsonEnvelope
}

func NewJSONStore(path string, bus *events.Bus) *JSONStore {
	return &JSONStore{path: path, bus: bus}
}

func (s *JSONStore) publish(kind events.Kind) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: kind})
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.data = &jsonEnvelope{
		Version: jsonStoreVersion,
		Settings: models.Settings{
			FilterMode: constants.DefaultFilterMode,
			Timezone:   constants.DefaultTimezone,
		},
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.data != nil {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habita init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.data = &jsonEnvelope{}
	if err := json.Unmarshal(raw, s.data); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Drop malformed records instead of refusing the whole file.
	valid := s.data.Records[:0]
	for _, rec := range s.data.Records {
		if rec.TrackerID == "" || rec.Day == "" {
			logger.Warn("skipping malformed completion record", "tracker", rec.TrackerID, "day", rec.Day)
			continue
		}
		valid = append(valid, rec)
	}
	s.data.Records = valid

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

// Settings

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	settings := s.data.Settings
	if !settings.FilterMode.Valid() {
		settings.FilterMode = constants.DefaultFilterMode
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.data.Settings = settings
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.SettingsChanged)
	return nil
}

// Categories

func (s *JSONStore) AddCategory(cat models.Category) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := validation.CategoryTitle(cat.Title, s.data.Categories, ""); err != nil {
		return err
	}
	s.data.Categories = append(s.data.Categories, cat)
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *JSONStore) findCategory(id string) (int, error) {
	for i, cat := range s.data.Categories {
		if cat.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: category %s", validation.ErrNotFound, id)
}

func (s *JSONStore) GetCategory(id string) (models.Category, error) {
	if err := s.loaded(); err != nil {
		return models.Category{}, err
	}
	i, err := s.findCategory(id)
	if err != nil {
		return models.Category{}, err
	}
	return cloneCategory(s.data.Categories[i]), nil
}

func (s *JSONStore) GetCategoryByTitle(title string) (models.Category, error) {
	if err := s.loaded(); err != nil {
		return models.Category{}, err
	}
	for _, cat := range s.data.Categories {
		if cat.Title == title {
			return cloneCategory(cat), nil
		}
	}
	return models.Category{}, fmt.Errorf("%w: category %q", validation.ErrNotFound, title)
}

func (s *JSONStore) GetAllCategories() ([]models.Category, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(s.data.Categories))
	for _, cat := range s.data.Categories {
		out = append(out, cloneCategory(cat))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *JSONStore) RenameCategory(id, title string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := validation.CategoryTitle(title, s.data.Categories, id); err != nil {
		return err
	}
	i, err := s.findCategory(id)
	if err != nil {
		return err
	}
	s.data.Categories[i].Title = title
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *JSONStore) DeleteCategory(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	i, err := s.findCategory(id)
	if err != nil {
		return err
	}
	// Cascade: drop records of the category's trackers.
	for _, t := range s.data.Categories[i].Trackers {
		s.dropRecords(t.ID)
	}
	s.data.Categories = append(s.data.Categories[:i], s.data.Categories[i+1:]...)
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

// Trackers

func (s *JSONStore) AddTracker(t models.Tracker, categoryID string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	i, err := s.findCategory(categoryID)
	if err != nil {
		return err
	}
	if err := validation.Tracker(t, s.data.Categories[i].Trackers, ""); err != nil {
		return err
	}
	t.Schedule = t.Schedule.Normalized()
	s.data.Categories[i].Trackers = append(s.data.Categories[i].Trackers, t)
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *JSONStore) findTracker(id string) (catIdx, trackerIdx int, err error) {
	for i, cat := range s.data.Categories {
		for j, t := range cat.Trackers {
			if t.ID == id {
				return i, j, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: tracker %s", validation.ErrNotFound, id)
}

func (s *JSONStore) GetTracker(id string) (models.Tracker, string, error) {
	if err := s.loaded(); err != nil {
		return models.Tracker{}, "", err
	}
	i, j, err := s.findTracker(id)
	if err != nil {
		return models.Tracker{}, "", err
	}
	return s.data.Categories[i].Trackers[j], s.data.Categories[i].ID, nil
}

func (s *JSONStore) GetTrackerByName(name string) (models.Tracker, string, error) {
	if err := s.loaded(); err != nil {
		return models.Tracker{}, "", err
	}
	for _, cat := range s.data.Categories {
		for _, t := range cat.Trackers {
			if t.Name == name {
				return t, cat.ID, nil
			}
		}
	}
	return models.Tracker{}, "", fmt.Errorf("%w: tracker %q", validation.ErrNotFound, name)
}

func (s *JSONStore) UpdateTracker(t models.Tracker, categoryID string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	oldCat, oldIdx, err := s.findTracker(t.ID)
	if err != nil {
		return err
	}
	newCat, err := s.findCategory(categoryID)
	if err != nil {
		return err
	}
	if err := validation.Tracker(t, s.data.Categories[newCat].Trackers, t.ID); err != nil {
		return err
	}

	t.Schedule = t.Schedule.Normalized()
	// Exclusive ownership: moving between categories removes the tracker
	// from the old one.
	trackers := s.data.Categories[oldCat].Trackers
	s.data.Categories[oldCat].Trackers = append(trackers[:oldIdx], trackers[oldIdx+1:]...)
	s.data.Categories[newCat].Trackers = append(s.data.Categories[newCat].Trackers, t)

	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

func (s *JSONStore) DeleteTracker(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	i, j, err := s.findTracker(id)
	if err != nil {
		return err
	}
	trackers := s.data.Categories[i].Trackers
	s.data.Categories[i].Trackers = append(trackers[:j], trackers[j+1:]...)
	s.dropRecords(id)
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.TrackersChanged)
	return nil
}

// Completion records

func (s *JSONStore) dropRecords(trackerID string) {
	kept := s.data.Records[:0]
	for _, rec := range s.data.Records {
		if rec.TrackerID != trackerID {
			kept = append(kept, rec)
		}
	}
	s.data.Records = kept
}

func (s *JSONStore) AddRecord(rec models.CompletionRecord) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for _, existing := range s.data.Records {
		if existing == rec {
			return nil // already boolean-complete for that day
		}
	}
	s.data.Records = append(s.data.Records, rec)
	if err := s.save(); err != nil {
		return err
	}
	s.publish(events.RecordsChanged)
	return nil
}

func (s *JSONStore) DeleteRecord(trackerID, day string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for i, rec := range s.data.Records {
		if rec.TrackerID == trackerID && rec.Day == day {
			s.data.Records = append(s.data.Records[:i], s.data.Records[i+1:]...)
			if err := s.save(); err != nil {
				return err
			}
			s.publish(events.RecordsChanged)
			return nil
		}
	}
	return nil
}

func (s *JSONStore) GetAllRecords() ([]models.CompletionRecord, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	out := make([]models.CompletionRecord, len(s.data.Records))
	copy(out, s.data.Records)
	return out, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func cloneCategory(cat models.Category) models.Category {
	out := cat
	out.Trackers = make([]models.Tracker, len(cat.Trackers))
	copy(out.Trackers, cat.Trackers)
	return out
}
