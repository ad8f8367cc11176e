package domain

import "time"

// HistoryLimit caps the local tab history at the most recent entries.
const HistoryLimit = 100

// HistoryEntry records a recently visited tab. History is append-only:
// entries are mirrored as remote inserts and never updated or deleted.
type HistoryEntry struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Favicon   string    `json:"favicon,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
