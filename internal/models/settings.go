package models

// Settings represents application-wide settings
type Settings struct {
	FilterMode          FilterMode `json:"filter_mode"`          // last-selected filter, restored at startup
	OnboardingCompleted bool       `json:"onboarding_completed"` // whether the first-run hint has been shown
	Timezone            string     `json:"timezone"`             // IANA timezone name, or "Local" for the system timezone
}
