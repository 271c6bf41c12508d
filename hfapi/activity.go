package hfapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hfgrass/heatmap"
)

// Feed is the envelope returned by the recent-activity endpoint.
type Feed struct {
	RecentActivity []Entry `json:"recentActivity"`
	Cursor         string  `json:"cursor,omitempty"`
}

// Entry is one item of the feed. Only the fields needed for bucketing and
// deduplication are decoded.
type Entry struct {
	EventID    string `json:"eventId,omitempty"`
	Time       string `json:"time"`
	Type       string `json:"type"`
	RepoID     string `json:"repoId,omitempty"`
	TargetType string `json:"targetType,omitempty"`
}

func (e Entry) key() string {
	if e.EventID != "" {
		return "event:" + e.EventID
	}
	return strings.Join([]string{e.Time, e.Type, e.RepoID, e.TargetType}, "|")
}

// ParseTime reads an ISO 8601 timestamp. Values without a zone are UTC.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("hfapi: parse time %q", value)
}

// Records fetches the feed and converts it to heatmap records, dropping
// duplicate events.
func (c *Client) Records(ctx context.Context, q Query) ([]heatmap.Record, error) {
	entries, err := c.RecentActivity(ctx, q)
	if err != nil {
		return nil, err
	}

	records := make([]heatmap.Record, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	skipped := 0
	for _, entry := range entries {
		key := entry.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if entry.Time == "" {
			skipped++
			continue
		}
		ts, err := ParseTime(entry.Time)
		if err != nil {
			return nil, err
		}
		records = append(records, heatmap.Record{Time: ts, Kind: heatmap.ParseKind(entry.Type)})
	}

	if skipped > 0 {
		c.log.Warn().Str("user", q.User).Int("skipped", skipped).Msg("entries without time ignored")
	}
	c.log.Info().
		Str("user", q.User).
		Int("entries", len(entries)).
		Int("records", len(records)).
		Msg("activity collected")
	return records, nil
}
