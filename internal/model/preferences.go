package model

// UserPreferences holds display and persistence settings. Nothing in the
// aggregation engine depends on it; reports use only the currency, date
// format, and locale fields.
type UserPreferences struct {
	CurrencyCode   string
	DateFormat     string
	Locale         string
	BackupLocation string
	DarkMode       bool
	AutoSave       bool
}

// DefaultPreferences returns the settings used before the user changes
// anything.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		CurrencyCode: "USD",
		DateFormat:   "2006-01-02",
		Locale:       "en",
		AutoSave:     true,
	}
}
