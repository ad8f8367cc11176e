// Package domain defines the core data model for tab collections.
package domain

import (
	"strings"
	"time"
)

// Default cosmetics applied when a space or workspace row omits them.
const (
	DefaultSpaceColor = "#914CE6"
	DefaultSpaceIcon  = "briefcase"
)

// Space is a workspace grouping collections.
//
// A space's id is local-only: the remote workspaces table generates its
// own ids, and the two sides are reconciled by case-insensitive name.
type Space struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSpace creates a space with defaults filled in and timestamps stamped.
func NewSpace(id, name, color, icon string) *Space {
	if color == "" {
		color = DefaultSpaceColor
	}
	if icon == "" {
		icon = DefaultSpaceIcon
	}
	now := time.Now().UTC()
	return &Space{
		ID:        id,
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeName returns the case-insensitive merge key for a space name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
