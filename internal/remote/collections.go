package remote

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ListCollections returns all collection rows for the user.
func (c *Client) ListCollections(ctx context.Context, userID string) ([]CollectionRow, error) {
	data, err := c.do(ctx, http.MethodGet,
		"/collections?select=id,name,workspace_id,created_at,updated_at&"+eq("user_id", userID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	var rows []CollectionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse collections: %w", err)
	}
	return rows, nil
}

// UpsertCollection creates or updates a collection row under its local
// id and returns the remote id (normally the same id echoed back).
func (c *Client) UpsertCollection(ctx context.Context, row CollectionRow) (string, error) {
	data, err := c.upsert(ctx, "/collections", row)
	if err != nil {
		return "", fmt.Errorf("upsert collection: %w", err)
	}

	var rows []CollectionRow
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		return row.ID, nil
	}
	return rows[0].ID, nil
}

// DeleteCollection deletes a collection row by id.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/collections?"+eq("id", id), nil, nil); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// DeleteTabsByCollection deletes all tab rows under a collection.
// Push replaces a collection's tabs wholesale: delete then upsert.
func (c *Client) DeleteTabsByCollection(ctx context.Context, collectionID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/tabs?"+eq("collection_id", collectionID), nil, nil); err != nil {
		return fmt.Errorf("delete tabs: %w", err)
	}
	return nil
}

// UpsertTabs inserts or updates tab rows in one request.
func (c *Client) UpsertTabs(ctx context.Context, rows []TabRow) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := c.upsert(ctx, "/tabs", rows); err != nil {
		return fmt.Errorf("upsert tabs: %w", err)
	}
	return nil
}

// ListTabsByCollections returns tab rows for the given collection ids,
// ordered by position within each collection.
func (c *Client) ListTabsByCollections(ctx context.Context, collectionIDs []string) ([]TabRow, error) {
	if len(collectionIDs) == 0 {
		return nil, nil
	}

	escaped := make([]string, len(collectionIDs))
	for i, id := range collectionIDs {
		escaped[i] = url.QueryEscape(id)
	}
	filter := "collection_id=in.(" + strings.Join(escaped, ",") + ")"

	data, err := c.do(ctx, http.MethodGet,
		"/tabs?select=collection_id,url,title,favicon,order_index&"+filter+"&order=order_index.asc", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}

	var rows []TabRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse tabs: %w", err)
	}
	return rows, nil
}
