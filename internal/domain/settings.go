package domain

// Settings is the single per-user preferences record.
// Settings merge last-writer-wins on sync; there is no field-level merge.
type Settings struct {
	Theme           string `json:"theme"`
	ColorTheme      string `json:"colorTheme"`
	AutoSaveEnabled bool   `json:"autoSaveEnabled"`
}

// NewSettings returns settings with defaults.
func NewSettings() *Settings {
	return &Settings{
		Theme:           "light",
		ColorTheme:      "purple",
		AutoSaveEnabled: true,
	}
}
