package constants

const (
	AppName           = "habita"
	Version           = "v0.3.1"
	DefaultConfigPath = "~/.config/habita/habita.db"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD). Completion records are keyed by it.
	DateFormat = "2006-01-02"

	// MaxNameLength caps tracker names and category titles.
	MaxNameLength = 38

	// Keyring constants
	DefaultKeyringUser = "database-connection"

	// Environment variable holding a Postgres connection string.
	DBConnectionEnv = "HABITA_DB_CONNECTION"
)

// Settings keys
const (
	SettingFilterMode          = "filter_mode"
	SettingOnboardingCompleted = "onboarding_completed"
	SettingTimezone            = "timezone"
)

// Default settings values
const (
	DefaultFilterMode          = 0 // FilterAll
	DefaultOnboardingCompleted = false
	DefaultTimezone            = "Local" // system local timezone
)
