package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/id"
)

// Export is the native backup format.
type Export struct {
	Spaces      []*domain.Space      `json:"spaces"`
	Collections []*domain.Collection `json:"collections"`
	Settings    *domain.Settings     `json:"settings"`
	ExportDate  time.Time            `json:"exportDate"`
}

// legacyImport is the groups/lists/cards format of older backups.
type legacyImport struct {
	Groups []legacyGroup `json:"groups"`
}

type legacyGroup struct {
	Name  string       `json:"name"`
	Lists []legacyList `json:"lists"`
}

type legacyList struct {
	Title string       `json:"title"`
	Cards []legacyCard `json:"cards"`
}

type legacyCard struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Favicon string `json:"favicon"`
}

// ImportRequest carries either format; exactly one side is set.
type ImportRequest struct {
	Spaces      []*domain.Space      `json:"spaces,omitempty"`
	Collections []*domain.Collection `json:"collections,omitempty"`
	Settings    *domain.Settings     `json:"settings,omitempty"`
	Groups      []legacyGroup        `json:"groups,omitempty"`
}

// ImportStats reports what an import added.
type ImportStats struct {
	Spaces      int `json:"spaces"`
	Collections int `json:"collections"`
	Tabs        int `json:"tabs"`
}

// spaceColors are the palette for imported legacy groups.
var spaceColors = []string{
	"#914CE6", "#4ECDC4", "#FF6B6B", "#FFD166", "#06D6A0",
	"#118AB2", "#5E60CE", "#7209B7", "#F72585", "#3A86FF",
}

func randomSpaceColor() string {
	return spaceColors[rand.Intn(len(spaceColors))]
}

// ExportData returns a full backup of the local store.
func (s *DataService) ExportData(ctx context.Context) (*Export, error) {
	spaces, err := s.store.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &Export{
		Spaces:      spaces,
		Collections: collections,
		Settings:    settings,
		ExportDate:  time.Now().UTC(),
	}, nil
}

// ImportData merges a backup into the local store. Existing data is
// never wiped: spaces merge by name, collections by name within their
// space, tabs by URL within their collection. Returns counts of what
// was actually added.
func (s *DataService) ImportData(ctx context.Context, req *ImportRequest) (*ImportStats, error) {
	switch {
	case len(req.Groups) > 0:
		return s.importLegacy(ctx, req.Groups)
	case len(req.Spaces) > 0 || len(req.Collections) > 0:
		return s.importNative(ctx, req)
	default:
		return nil, errors.New("unrecognized import format")
	}
}

func (s *DataService) importNative(ctx context.Context, req *ImportRequest) (*ImportStats, error) {
	stats := &ImportStats{}

	// Remap imported space ids onto existing same-named spaces.
	spaceIDMap := make(map[string]string, len(req.Spaces))
	for _, sp := range req.Spaces {
		localID, added, err := s.mergeSpace(ctx, sp.Name, sp.Color, sp.Icon)
		if err != nil {
			return nil, err
		}
		spaceIDMap[sp.ID] = localID
		if added {
			stats.Spaces++
		}
	}

	for _, coll := range req.Collections {
		spaceID := spaceIDMap[coll.SpaceID]
		if spaceID == "" {
			spaceID = coll.SpaceID
		}
		added, tabsAdded, err := s.mergeCollection(ctx, coll.Name, spaceID, coll.Tabs)
		if err != nil {
			return nil, err
		}
		if added {
			stats.Collections++
		}
		stats.Tabs += tabsAdded
	}

	if req.Settings != nil {
		if err := s.store.UpsertSettings(ctx, req.Settings); err != nil {
			return nil, err
		}
	}

	s.requestSync()
	return stats, nil
}

func (s *DataService) importLegacy(ctx context.Context, groups []legacyGroup) (*ImportStats, error) {
	stats := &ImportStats{}

	for _, group := range groups {
		if group.Name == "" || len(group.Lists) == 0 {
			continue
		}

		spaceID, added, err := s.mergeSpace(ctx, group.Name, randomSpaceColor(), "")
		if err != nil {
			return nil, err
		}
		if added {
			stats.Spaces++
		}

		for _, list := range group.Lists {
			if list.Title == "" || len(list.Cards) == 0 {
				continue
			}

			tabs := make([]domain.Tab, 0, len(list.Cards))
			for _, card := range list.Cards {
				if card.URL == "" {
					continue
				}
				title := card.Title
				if title == "" {
					title = card.URL
				}
				tabs = append(tabs, domain.Tab{
					ID:      id.NewUUID(),
					URL:     card.URL,
					Title:   title,
					Favicon: card.Favicon,
					AddedAt: time.Now().UTC(),
				})
			}

			collAdded, tabsAdded, err := s.mergeCollection(ctx, list.Title, spaceID, tabs)
			if err != nil {
				return nil, err
			}
			if collAdded {
				stats.Collections++
			}
			stats.Tabs += tabsAdded
		}
	}

	s.requestSync()
	return stats, nil
}

// mergeSpace finds or creates a space by name and reports whether it
// was created.
func (s *DataService) mergeSpace(ctx context.Context, name, color, icon string) (string, bool, error) {
	existing, err := s.store.GetSpaceByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}

	spaceID := id.Slug(name)
	if spaceID == "" {
		spaceID = id.MustGenerate("space")
	} else if _, err := s.store.GetSpace(ctx, spaceID); err == nil {
		spaceID = id.MustGenerate("space")
	}
	space := domain.NewSpace(spaceID, name, color, icon)
	if err := s.store.CreateSpace(ctx, space); err != nil {
		return "", false, err
	}
	return spaceID, true, nil
}

// mergeCollection merges a collection into its space: matched by name,
// tabs deduplicated by URL. Reports whether the collection was created
// and how many tabs were added.
func (s *DataService) mergeCollection(ctx context.Context, name, spaceID string, tabs []domain.Tab) (bool, int, error) {
	existing, err := s.findCollectionByName(ctx, spaceID, name)
	if err != nil {
		return false, 0, err
	}

	if existing == nil {
		for i := range tabs {
			if tabs[i].ID == "" {
				tabs[i].ID = id.NewUUID()
			}
		}
		coll := domain.NewCollection(id.NewUUID(), name, spaceID, tabs)
		if err := s.store.UpsertCollection(ctx, coll); err != nil {
			return false, 0, err
		}
		return true, len(tabs), nil
	}

	seen := make(map[string]bool, len(existing.Tabs))
	for _, t := range existing.Tabs {
		seen[t.URL] = true
	}

	added := 0
	for _, t := range tabs {
		if seen[t.URL] {
			continue
		}
		if t.ID == "" {
			t.ID = id.NewUUID()
		}
		existing.Tabs = append(existing.Tabs, t)
		seen[t.URL] = true
		added++
	}
	if added == 0 {
		return false, 0, nil
	}

	existing.Touch()
	if err := s.store.UpsertCollection(ctx, existing); err != nil {
		return false, 0, err
	}
	return false, added, nil
}

func (s *DataService) findCollectionByName(ctx context.Context, spaceID, name string) (*domain.Collection, error) {
	collections, err := s.store.ListCollectionsBySpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	for _, c := range collections {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}
