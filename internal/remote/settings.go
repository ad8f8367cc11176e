package remote

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"strconv"
)

// GetSettings returns the user's settings row, or nil when the user has
// never pushed settings.
func (c *Client) GetSettings(ctx context.Context, userID string) (*SettingsRow, error) {
	data, err := c.do(ctx, http.MethodGet,
		"/user_settings?select=theme,color_theme,auto_save_enabled&"+eq("user_id", userID)+"&limit=1", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var rows []SettingsRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpsertSettings creates or replaces the user's settings row.
func (c *Client) UpsertSettings(ctx context.Context, row SettingsRow) error {
	if _, err := c.upsert(ctx, "/user_settings?on_conflict=user_id", row); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// InsertHistory appends history rows. History is never updated or
// deleted remotely.
func (c *Client) InsertHistory(ctx context.Context, rows []HistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := c.do(ctx, http.MethodPost, "/tab_history", rows, nil); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListHistory returns the user's newest history rows, newest first.
func (c *Client) ListHistory(ctx context.Context, userID string, limit int) ([]HistoryRow, error) {
	data, err := c.do(ctx, http.MethodGet,
		"/tab_history?select=client_tab_id,url,title,favicon,timestamp&"+eq("user_id", userID)+
			"&order=timestamp.desc&limit="+strconv.Itoa(limit), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	var rows []HistoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return rows, nil
}
