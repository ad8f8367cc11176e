package sync

import "github.com/simpletab/tabsync/internal/domain"

// ResolveWorkspaceID maps a collection's local space to a remote
// workspace id using the name->id map built during push.
//
// When the collection's space no longer exists (or its name has no
// remote counterpart), the first available space is used as a
// fallback; usedFallback reports that. An empty id means the
// collection cannot be placed and must be skipped.
//
// Spaces with the same name on both sides merge silently here. That is
// the accepted tradeoff of name-keyed workspace matching: two devices
// naming a space "Work" share one remote workspace.
func ResolveWorkspaceID(coll *domain.Collection, spaces []*domain.Space, idByName map[string]string) (wsID string, usedFallback bool) {
	for _, s := range spaces {
		if s.ID == coll.SpaceID {
			if id, ok := idByName[s.Name]; ok {
				return id, false
			}
			break
		}
	}

	if len(spaces) > 0 {
		if id, ok := idByName[spaces[0].Name]; ok {
			return id, true
		}
	}

	return "", false
}
