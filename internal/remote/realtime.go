package remote

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Tables watched for remote changes.
var realtimeTables = []string{"workspaces", "collections", "tabs", "user_settings", "tab_history"}

const heartbeatInterval = 30 * time.Second

// ChangeHandler is invoked for every postgres change event received on
// a watched table. Handlers must be fast; slow work belongs behind a
// debounce.
type ChangeHandler func(table string)

// realtimeMessage is the Phoenix channel message envelope used by the
// Supabase realtime websocket.
type realtimeMessage struct {
	Topic   string         `json:"topic"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
	Ref     string         `json:"ref"`
}

// SubscribeChanges opens a realtime websocket and invokes handler on
// every change to a watched table. It returns a stop function that
// closes the connection; calling it more than once is safe.
//
// The subscription does not reconnect. The caller owns retry policy;
// the connection also dies when ctx is cancelled.
func (c *Client) SubscribeChanges(ctx context.Context, handler ChangeHandler) (func(), error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		"/realtime/v1/websocket?apikey=" + c.anonKey + "&vsn=1.0.0"

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime dial: %w", err)
	}

	for i, table := range realtimeTables {
		join := realtimeMessage{
			Topic: "realtime:public:" + table,
			Event: "phx_join",
			Payload: map[string]any{
				"config": map[string]any{
					"postgres_changes": []map[string]any{
						{"event": "*", "schema": "public", "table": table},
					},
				},
			},
			Ref: fmt.Sprintf("%d", i+1),
		}
		data, err := json.Marshal(join)
		if err != nil {
			_ = conn.Close(websocket.StatusInternalError, "join marshal failed")
			return nil, fmt.Errorf("realtime join: %w", err)
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			_ = conn.Close(websocket.StatusInternalError, "join failed")
			return nil, fmt.Errorf("realtime join %s: %w", table, err)
		}
	}

	subCtx, cancel := context.WithCancel(ctx)

	go c.heartbeatLoop(subCtx, conn)
	go c.readLoop(subCtx, conn, handler)

	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			cancel()
			_ = conn.Close(websocket.StatusNormalClosure, "")
		})
	}
	return stop, nil
}

func (c *Client) heartbeatLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			beat := realtimeMessage{Topic: "phoenix", Event: "heartbeat", Payload: map[string]any{}}
			data, err := json.Marshal(beat)
			if err != nil {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, handler ChangeHandler) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && c.logger != nil {
				c.logger.Warn("realtime connection closed", "error", err)
			}
			return
		}

		var msg realtimeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case "phx_reply", "phx_close", "heartbeat", "presence_state":
			continue
		}

		table := strings.TrimPrefix(msg.Topic, "realtime:public:")
		if table == msg.Topic {
			continue
		}

		if c.logger != nil {
			c.logger.Debug("realtime change", "table", table, "event", msg.Event)
		}
		handler(table)
	}
}
