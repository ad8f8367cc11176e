package domain

import "time"

// Tab is a saved browser tab embedded in a collection. Tabs have no
// independent lifecycle; they are created and deleted as part of a
// collection mutation.
type Tab struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Favicon string    `json:"favicon,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// Collection is an ordered set of tabs belonging to a space.
//
// Collection ids are UUIDs and are reused as the remote primary key, so
// no id-mapping table is needed for collections (unlike spaces, which
// map by name).
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SpaceID   string    `json:"spaceId"`
	Tabs      []Tab     `json:"tabs"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCollection creates a collection with timestamps stamped.
func NewCollection(id, name, spaceID string, tabs []Tab) *Collection {
	if tabs == nil {
		tabs = []Tab{}
	}
	now := time.Now().UTC()
	return &Collection{
		ID:        id,
		Name:      name,
		SpaceID:   spaceID,
		Tabs:      tabs,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindTab returns the index of the tab with the given id, or -1.
func (c *Collection) FindTab(tabID string) int {
	for i, t := range c.Tabs {
		if t.ID == tabID {
			return i
		}
	}
	return -1
}

// Touch updates the collection's modification timestamp.
func (c *Collection) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
