package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/events"
)

// SubscribeEvents streams daemon events until ctx is cancelled or the daemon
// closes the connection. An empty session receives events of every session.
// The returned channel is closed when the stream ends.
func (c *Client) SubscribeEvents(ctx context.Context, session string) (<-chan events.Event, error) {
	path := "/events"
	if session != "" {
		path += "?session=" + url.QueryEscape(session)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to subscribe to events: got %d", resp.StatusCode)
	}

	ch := make(chan events.Event)
	go func() {
		defer close(ch)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logrus.Debugf("failed to close event stream: %v", err)
			}
		}()

		var cur events.Event
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if cur.Name == "" {
					continue
				}
				select {
				case ch <- cur:
				case <-ctx.Done():
					return
				}
				cur = events.Event{}
			case strings.HasPrefix(line, "event:"):
				cur.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				cur.Data = json.RawMessage(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			logrus.Debugf("event stream ended: %v", err)
		}
	}()

	return ch, nil
}
