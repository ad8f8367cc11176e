package remote

import "time"

// Row types mirror the remote table schemas. Column names are
// snake_case on the wire.

// ProfileRow is a row in the profiles table.
type ProfileRow struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkspaceRow is a row in the workspaces table. The remote generates
// workspace ids; local spaces match rows by name, not id.
type WorkspaceRow struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CollectionRow is a row in the collections table. The id is the local
// collection UUID, shared across both sides.
type CollectionRow struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// TabRow is a row in the tabs table. Tabs are replaced wholesale per
// collection on push; order_index preserves tab ordering.
type TabRow struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id,omitempty"`
	CollectionID string `json:"collection_id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Favicon      string `json:"favicon,omitempty"`
	OrderIndex   int    `json:"order_index"`
}

// SettingsRow is a row in the user_settings table, one per user.
type SettingsRow struct {
	UserID          string    `json:"user_id"`
	Theme           string    `json:"theme"`
	ColorTheme      string    `json:"color_theme"`
	AutoSaveEnabled bool      `json:"auto_save_enabled"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// HistoryRow is a row in the tab_history table. History is append-only;
// client_tab_id carries the local entry id so pulls can round-trip it.
type HistoryRow struct {
	UserID      string    `json:"user_id,omitempty"`
	ClientTabID string    `json:"client_tab_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Favicon     string    `json:"favicon,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
