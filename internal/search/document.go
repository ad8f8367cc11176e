// Package search provides full-text search over collections and their
// tabs, backed by Bleve.
package search

import (
	"strings"

	"github.com/simpletab/tabsync/internal/domain"
)

// Document is the indexed shape of a collection: its own name plus the
// flattened titles and URLs of its tabs, so one hit covers "find the
// collection holding that tab".
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SpaceName string `json:"space_name"`
	TabTitles string `json:"tab_titles"`
	TabURLs   string `json:"tab_urls"`
	TabCount  int    `json:"tab_count"`
}

// NewDocument builds the index document for a collection.
func NewDocument(c *domain.Collection, spaceName string) *Document {
	titles := make([]string, 0, len(c.Tabs))
	urls := make([]string, 0, len(c.Tabs))
	for _, t := range c.Tabs {
		titles = append(titles, t.Title)
		urls = append(urls, t.URL)
	}

	return &Document{
		ID:        c.ID,
		Name:      c.Name,
		SpaceName: spaceName,
		TabTitles: strings.Join(titles, "\n"),
		TabURLs:   strings.Join(urls, "\n"),
		TabCount:  len(c.Tabs),
	}
}

// ToMap converts the document for indexing so field names match the
// mapping exactly.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"id":         d.ID,
		"name":       d.Name,
		"space_name": d.SpaceName,
		"tab_titles": d.TabTitles,
		"tab_urls":   d.TabURLs,
		"tab_count":  d.TabCount,
	}
}
