// Package hfapi reads a user's public activity feed from the Hugging Face
// recent-activity endpoint.
package hfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://huggingface.co/api/recent-activity"
	DefaultTimeout = 30 * time.Second
	DefaultLimit   = 100

	userAgent    = "hf-grass-widget"
	maxErrorBody = 512
)

// ErrUnknownUser is returned when the endpoint answers 404 for the entity.
var ErrUnknownUser = errors.New("hfapi: unknown user")

// StatusError reports a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("hfapi: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("hfapi: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.With().Str("component", "hfapi").Logger(),
	}
}

// Query selects the feed to read. ActivityType is passed through to the
// endpoint, which treats "all" as no filter.
type Query struct {
	User         string
	ActivityType string
	Limit        int
}

func (c *Client) buildURL(q Query) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("hfapi: parse base url: %w", err)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	activityType := q.ActivityType
	if activityType == "" {
		activityType = "all"
	}
	params := u.Query()
	params.Set("limit", strconv.Itoa(limit))
	params.Set("activityType", activityType)
	params.Set("feedType", "user")
	params.Set("entity", q.User)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// RecentActivity issues a single GET and returns the raw entries. It does not
// follow the cursor and never retries.
func (c *Client) RecentActivity(ctx context.Context, q Query) ([]Entry, error) {
	if strings.TrimSpace(q.User) == "" {
		return nil, errors.New("hfapi: user is empty")
	}
	endpoint, err := c.buildURL(q)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("hfapi: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hfapi: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hfapi: read response: %w", err)
	}
	c.log.Debug().
		Str("user", q.User).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(body)).
		Msg("fetched recent activity")

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w %q", ErrUnknownUser, q.User)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBody)}
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// decodeEntries accepts the feed object as well as a bare array of entries.
func decodeEntries(body []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("hfapi: decode response: %w", err)
		}
		return entries, nil
	}
	var feed Feed
	if err := json.Unmarshal(trimmed, &feed); err != nil {
		return nil, fmt.Errorf("hfapi: decode response: %w", err)
	}
	return feed.RecentActivity, nil
}
