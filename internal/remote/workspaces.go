package remote

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"time"
)

// EnsureProfile upserts the user's profile row. Harmless when the row
// already exists.
func (c *Client) EnsureProfile(ctx context.Context, userID, email string) error {
	_, err := c.upsert(ctx, "/profiles?on_conflict=user_id", ProfileRow{
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

// ListWorkspaces returns all workspaces for the user, ordered by name.
func (c *Client) ListWorkspaces(ctx context.Context, userID string) ([]WorkspaceRow, error) {
	data, err := c.do(ctx, http.MethodGet,
		"/workspaces?select=id,name,color,icon,updated_at&"+eq("user_id", userID)+"&order=name", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	var rows []WorkspaceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse workspaces: %w", err)
	}
	return rows, nil
}

// FindWorkspaceByName returns the user's workspace with the given name,
// or nil when no such row exists.
func (c *Client) FindWorkspaceByName(ctx context.Context, userID, name string) (*WorkspaceRow, error) {
	data, err := c.do(ctx, http.MethodGet,
		"/workspaces?select=id,name,color,icon,updated_at&"+eq("user_id", userID)+"&"+eq("name", name)+"&limit=1", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("find workspace: %w", err)
	}

	var rows []WorkspaceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// InsertWorkspace creates a workspace row and returns the generated id.
func (c *Client) InsertWorkspace(ctx context.Context, row WorkspaceRow) (string, error) {
	row.UpdatedAt = time.Now().UTC()
	data, err := c.do(ctx, http.MethodPost, "/workspaces", row, nil)
	if err != nil {
		return "", fmt.Errorf("insert workspace: %w", err)
	}

	var rows []WorkspaceRow
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		return "", fmt.Errorf("insert workspace: missing returned row")
	}
	return rows[0].ID, nil
}

// UpdateWorkspace updates a workspace's cosmetics by remote id.
func (c *Client) UpdateWorkspace(ctx context.Context, id, color, icon string) error {
	payload := map[string]any{
		"color":      color,
		"icon":       icon,
		"updated_at": time.Now().UTC(),
	}
	if _, err := c.do(ctx, http.MethodPatch, "/workspaces?"+eq("id", id), payload, nil); err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	return nil
}

// DeleteWorkspace deletes a workspace row by remote id.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/workspaces?"+eq("id", id), nil, nil); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}
