package storage

import "github.com/habita/habita/internal/models"

// Provider is the persistence collaborator behind the tracker and record
// repositories. Implementations publish a change event on every mutation.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Categories
	AddCategory(models.Category) error
	GetCategory(id string) (models.Category, error)
	GetCategoryByTitle(title string) (models.Category, error)
	GetAllCategories() ([]models.Category, error)
	RenameCategory(id, title string) error
	DeleteCategory(id string) error

	// Trackers
	AddTracker(t models.Tracker, categoryID string) error
	GetTracker(id string) (models.Tracker, string, error)
	GetTrackerByName(name string) (models.Tracker, string, error)
	UpdateTracker(t models.Tracker, categoryID string) error
	DeleteTracker(id string) error

	// Completion records
	AddRecord(models.CompletionRecord) error
	DeleteRecord(trackerID, day string) error
	GetAllRecords() ([]models.CompletionRecord, error)

	// Utils
	GetConfigPath() string
}
