package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/validation"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store := NewJSONStore(filepath.Join(t.TempDir(), "habita.json"), nil)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func testCategory(id, title string) models.Category {
	return models.Category{ID: id, Title: title, CreatedAt: time.Now()}
}

func testTracker(id, name string) models.Tracker {
	return models.Tracker{
		ID:        id,
		Name:      name,
		Emoji:     "🙂",
		Color:     1,
		Schedule:  models.Schedule{models.Monday, models.Wednesday},
		CreatedAt: time.Now(),
	}
}

func TestJSONStore_InitAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habita.json")
	store := NewJSONStore(path, nil)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("second Init should fail")
	}

	if err := store.AddCategory(testCategory("c1", "Health")); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if err := store.AddTracker(testTracker("t1", "Drink water"), "c1"); err != nil {
		t.Fatalf("AddTracker failed: %v", err)
	}

	// Fresh store instance reads it back from disk.
	reloaded := NewJSONStore(path, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cats, err := reloaded.GetAllCategories()
	if err != nil {
		t.Fatalf("GetAllCategories failed: %v", err)
	}
	if len(cats) != 1 || len(cats[0].Trackers) != 1 || cats[0].Trackers[0].Name != "Drink water" {
		t.Fatalf("reloaded data mismatch: %+v", cats)
	}
}

func TestJSONStore_LoadUninitialized(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err := store.Load(); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestJSONStore_CategoryValidation(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.AddCategory(testCategory("c1", "Health")); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if !errors.Is(store.AddCategory(testCategory("c2", "Health")), validation.ErrDuplicateName) {
		t.Error("duplicate category title should be rejected")
	}
	if !errors.Is(store.AddCategory(testCategory("c3", "")), validation.ErrEmptyName) {
		t.Error("empty category title should be rejected")
	}
	if !errors.Is(store.RenameCategory("missing", "Other"), validation.ErrNotFound) {
		t.Error("renaming missing category should be not-found")
	}
	if !errors.Is(store.DeleteCategory("missing"), validation.ErrNotFound) {
		t.Error("deleting missing category should be not-found")
	}
}

func TestJSONStore_TrackerValidationAndMove(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddCategory(testCategory("c1", "Health")); err != nil {
		t.Fatal(err)
	}
	if err := store.AddCategory(testCategory("c2", "Chores")); err != nil {
		t.Fatal(err)
	}
	if err := store.AddTracker(testTracker("t1", "Drink water"), "c1"); err != nil {
		t.Fatal(err)
	}

	if !errors.Is(store.AddTracker(testTracker("t2", "Drink water"), "c1"), validation.ErrDuplicateName) {
		t.Error("duplicate tracker name within category should be rejected")
	}
	// Same name in a different category is allowed.
	if err := store.AddTracker(testTracker("t2", "Drink water"), "c2"); err != nil {
		t.Errorf("same name in different category rejected: %v", err)
	}
	if !errors.Is(store.AddTracker(testTracker("t3", "Run"), "missing"), validation.ErrNotFound) {
		t.Error("adding to missing category should be not-found")
	}

	// Reassignment is exclusive: the tracker leaves its old category.
	moved := testTracker("t1", "Hydrate")
	if err := store.UpdateTracker(moved, "c2"); err != nil {
		t.Fatalf("UpdateTracker move failed: %v", err)
	}
	c1, _ := store.GetCategory("c1")
	c2, _ := store.GetCategory("c2")
	if len(c1.Trackers) != 0 {
		t.Errorf("tracker still in old category: %+v", c1.Trackers)
	}
	found := false
	for _, tr := range c2.Trackers {
		if tr.ID == "t1" && tr.Name == "Hydrate" {
			found = true
		}
	}
	if !found {
		t.Errorf("moved tracker missing from target category: %+v", c2.Trackers)
	}
}

func TestJSONStore_Records(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddCategory(testCategory("c1", "Health")); err != nil {
		t.Fatal(err)
	}
	if err := store.AddTracker(testTracker("t1", "Drink water"), "c1"); err != nil {
		t.Fatal(err)
	}

	rec := models.CompletionRecord{TrackerID: "t1", Day: "2024-03-15"}
	if err := store.AddRecord(rec); err != nil {
		t.Fatal(err)
	}
	// Adding the same day twice keeps a single record.
	if err := store.AddRecord(rec); err != nil {
		t.Fatal(err)
	}
	records, err := store.GetAllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if err := store.DeleteRecord("t1", "2024-03-15"); err != nil {
		t.Fatal(err)
	}
	records, _ = store.GetAllRecords()
	if len(records) != 0 {
		t.Fatalf("expected no records after delete, got %d", len(records))
	}

	// Deleting a tracker drops its records.
	store.AddRecord(rec)
	if err := store.DeleteTracker("t1"); err != nil {
		t.Fatal(err)
	}
	records, _ = store.GetAllRecords()
	if len(records) != 0 {
		t.Errorf("records survived tracker deletion: %+v", records)
	}
}

func TestJSONStore_SettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habita.json")
	store := NewJSONStore(path, nil)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.FilterMode != models.FilterAll {
		t.Errorf("default filter mode = %v, want all", settings.FilterMode)
	}
	if settings.OnboardingCompleted {
		t.Error("onboarding should default to not completed")
	}

	settings.FilterMode = models.FilterUncompleted
	settings.OnboardingCompleted = true
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	reloaded := NewJSONStore(path, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.FilterMode != models.FilterUncompleted || !got.OnboardingCompleted {
		t.Errorf("settings did not round-trip: %+v", got)
	}
}
