package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hfgrass/config"
	"hfgrass/heatmap"
	"hfgrass/hfapi"
)

var fixedNow = time.Date(2025, time.March, 10, 18, 30, 0, 0, time.UTC)

const sampleFeed = `{
	"recentActivity": [
		{"eventId": "1", "time": "2025-03-10T08:00:00Z", "type": "discussion"},
		{"eventId": "2", "time": "2025-03-09T08:00:00Z", "type": "discussion"},
		{"eventId": "3", "time": "2025-03-09T09:00:00Z", "type": "upvote"},
		{"eventId": "4", "time": "2025-03-01T09:00:00Z", "type": "like"},
		{"eventId": "5", "time": "2020-01-01T00:00:00Z", "type": "discussion"}
	]
}`

type feedServer struct {
	srv  *httptest.Server
	hits int
}

func newFeedServer(t *testing.T, status int, body string) *feedServer {
	t.Helper()
	fs := &feedServer{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits++
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func testEnv(t *testing.T, apiBase string) config.Env {
	t.Helper()
	return config.Env{
		AppEnv:     "test",
		APIBase:    apiBase,
		Timeout:    5 * time.Second,
		LogLevel:   "error",
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
	}
}

func useFixedClock(t *testing.T) {
	t.Helper()
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = time.Now })
}

func TestParseOptionsDefaults(t *testing.T) {
	env := config.Env{Username: "alice", LogLevel: "info"}
	opts, err := parseOptions([]string{"--out", "grass.svg"}, env, config.File{}, io.Discard)
	require.NoError(t, err)

	require.Equal(t, "alice", opts.user)
	require.Equal(t, heatmap.FilterAll, opts.filter)
	require.Equal(t, "light", opts.render.Theme.Name)
	require.Equal(t, heatmap.DefaultDays, opts.days)
	require.Equal(t, time.Sunday, opts.render.WeekStart)
	require.Equal(t, "Hugging Face activity (alice)", opts.render.Title)
	require.False(t, opts.render.ShowLegend)
}

func TestParseOptionsPrecedence(t *testing.T) {
	offset := 9
	file := config.File{User: "file-user", Theme: "github-dark", TZOffset: &offset, ShowLegend: true, Out: "from-file.svg"}

	opts, err := parseOptions(nil, config.Env{}, file, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "file-user", opts.user)
	require.Equal(t, 9, opts.tzOffset)
	require.Equal(t, "github-dark", opts.render.Theme.Name)
	require.True(t, opts.render.ShowLegend)

	opts, err = parseOptions([]string{"--user", "flag-user", "--tz-offset", "-5", "--theme", "light"}, config.Env{Username: "env-user"}, file, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "flag-user", opts.user)
	require.Equal(t, -5, opts.tzOffset)
	require.Equal(t, "light", opts.render.Theme.Name)

	opts, err = parseOptions(nil, config.Env{Username: "env-user"}, file, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "env-user", opts.user)
}

func TestParseOptionsRejectsInvalidArguments(t *testing.T) {
	base := []string{"--user", "alice", "--out", "grass.svg"}
	cases := map[string][]string{
		"missing user":   {"--out", "grass.svg"},
		"missing out":    {"--user", "alice"},
		"unknown theme":  append(base, "--theme", "solarized"),
		"unknown type":   append(base, "--activity-type", "comment"),
		"offset too big": append(base, "--tz-offset", "15"),
		"offset not int": append(base, "--tz-offset", "nine"),
		"zero days":      append(base, "--days", "0"),
		"week start":     append(base, "--week-start", "friday"),
		"cell size":      append(base, "--cell-size", "0"),
		"negative gap":   append(base, "--cell-gap", "-1"),
		"too many days":  append(base, "--days", "120000"),
		"huge cell":      append(base, "--cell-size", "100000"),
		"huge gap":       append(base, "--cell-gap", "1000"),
		"unknown flag":   append(base, "--colour", "red"),
		"stray argument": append(base, "extra"),
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseOptions(args, config.Env{}, config.File{}, io.Discard)
			require.ErrorIs(t, err, errUsage)
			require.Equal(t, 2, exitCode(err))
		})
	}
}

func TestReportSkipsErrorsFlagAlreadyPrinted(t *testing.T) {
	var flagOut bytes.Buffer
	_, err := parseOptions([]string{"--colour", "red"}, config.Env{}, config.File{}, &flagOut)
	require.ErrorIs(t, err, errUsage)
	require.Contains(t, flagOut.String(), "flag provided but not defined")

	var stderr bytes.Buffer
	report(&stderr, newStyles(), err)
	require.Empty(t, stderr.String())

	_, err = parseOptions([]string{"--out", "grass.svg"}, config.Env{}, config.File{}, io.Discard)
	require.ErrorIs(t, err, errUsage)
	report(&stderr, newStyles(), err)
	require.Contains(t, stderr.String(), "missing --user")
}

func TestRunHugeCellSizeMakesNoRequest(t *testing.T) {
	feed := newFeedServer(t, http.StatusOK, sampleFeed)
	out := filepath.Join(t.TempDir(), "grass.svg")

	err := run(context.Background(), []string{"--user", "alice", "--out", out, "--cell-size", "100000", "--plot"}, testEnv(t, feed.srv.URL), io.Discard, io.Discard)
	require.Equal(t, 2, exitCode(err))
	require.Zero(t, feed.hits)
}

func TestParseOptionsHelp(t *testing.T) {
	_, err := parseOptions([]string{"-h"}, config.Env{}, config.File{}, io.Discard)
	require.ErrorIs(t, err, flag.ErrHelp)
	require.Equal(t, 0, exitCode(err))
}

func TestRunUnknownThemeMakesNoRequest(t *testing.T) {
	feed := newFeedServer(t, http.StatusOK, sampleFeed)
	out := filepath.Join(t.TempDir(), "grass.svg")

	err := run(context.Background(), []string{"--user", "alice", "--out", out, "--theme", "neon"}, testEnv(t, feed.srv.URL), io.Discard, io.Discard)
	require.ErrorIs(t, err, errUsage)
	require.Equal(t, 2, exitCode(err))
	require.Zero(t, feed.hits)
	require.NoFileExists(t, out)
}

func TestRunWritesHeatmapAndPreview(t *testing.T) {
	useFixedClock(t)
	feed := newFeedServer(t, http.StatusOK, sampleFeed)
	out := filepath.Join(t.TempDir(), "assets", "hf-grass.svg")

	var stdout bytes.Buffer
	args := []string{"--user", "alice", "--out", out, "--show-legend", "--show-months", "--plot", "--theme", "github-dark"}
	err := run(context.Background(), args, testEnv(t, feed.srv.URL), &stdout, io.Discard)
	require.NoError(t, err)
	require.Equal(t, 1, feed.hits)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)
	require.Equal(t, heatmap.DefaultDays, strings.Count(doc, `<rect class="day"`))
	require.Contains(t, doc, `data-date="2025-03-09" data-count="2" data-level="1"`)
	require.Contains(t, doc, "Hugging Face activity (alice)")
	require.Contains(t, stdout.String(), "with 4 activities")

	f, err := os.Open(filepath.Join(filepath.Dir(out), "hf-grass-preview.png"))
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)
}

func TestRunFiltersByActivityType(t *testing.T) {
	useFixedClock(t)
	feed := newFeedServer(t, http.StatusOK, sampleFeed)
	out := filepath.Join(t.TempDir(), "grass.svg")

	var stdout bytes.Buffer
	args := []string{"--user", "alice", "--out", out, "--activity-type", "discussion"}
	require.NoError(t, run(context.Background(), args, testEnv(t, feed.srv.URL), &stdout, io.Discard))
	require.Contains(t, stdout.String(), "with 2 activities")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `data-date="2025-03-09" data-count="1"`)
	require.Contains(t, string(data), `data-date="2025-03-01" data-count="0"`)
}

func TestRunEmptyActivityStillRenders(t *testing.T) {
	useFixedClock(t)
	feed := newFeedServer(t, http.StatusOK, `{"recentActivity": []}`)
	out := filepath.Join(t.TempDir(), "grass.svg")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--user", "quiet", "--out", out, "--days", "371"}, testEnv(t, feed.srv.URL), &stdout, io.Discard))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, 371, strings.Count(string(data), `data-level="0"`))
	require.Contains(t, stdout.String(), "with 0 activities")
}

func TestRunFetchFailureWritesNothing(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		target error
	}{
		"server error":   {status: http.StatusInternalServerError, body: "boom"},
		"unknown user":   {status: http.StatusNotFound, body: "{}", target: hfapi.ErrUnknownUser},
		"malformed json": {status: http.StatusOK, body: `{"recentActivity": [`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			feed := newFeedServer(t, tc.status, tc.body)
			dir := t.TempDir()
			out := filepath.Join(dir, "grass.svg")

			err := run(context.Background(), []string{"--user", "alice", "--out", out, "--plot"}, testEnv(t, feed.srv.URL), io.Discard, io.Discard)
			require.Error(t, err)
			require.Equal(t, 1, exitCode(err))
			if tc.target != nil {
				require.True(t, errors.Is(err, tc.target))
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

func TestRunSaveConfig(t *testing.T) {
	useFixedClock(t)
	feed := newFeedServer(t, http.StatusOK, sampleFeed)
	env := testEnv(t, feed.srv.URL)
	out := filepath.Join(t.TempDir(), "grass.svg")

	args := []string{"--user", "alice", "--out", out, "--tz-offset", "9", "--save-config"}
	require.NoError(t, run(context.Background(), args, env, io.Discard, io.Discard))

	saved, err := config.LoadFile(env.ConfigPath)
	require.NoError(t, err)
	require.Equal(t, "alice", saved.User)
	require.NotNil(t, saved.TZOffset)
	require.Equal(t, 9, *saved.TZOffset)
}

func TestRunSaveConfigSkippedWhenFetchFails(t *testing.T) {
	feed := newFeedServer(t, http.StatusInternalServerError, "boom")
	env := testEnv(t, feed.srv.URL)
	out := filepath.Join(t.TempDir(), "grass.svg")

	err := run(context.Background(), []string{"--user", "alice", "--out", out, "--save-config"}, env, io.Discard, io.Discard)
	require.Equal(t, 1, exitCode(err))
	require.NoFileExists(t, env.ConfigPath)
}

func TestPreviewPath(t *testing.T) {
	require.Equal(t, filepath.Join("assets", "hf-grass-preview.png"), previewPath(filepath.Join("assets", "hf-grass.svg")))
	require.Equal(t, "grass-preview.png", previewPath("grass"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", "prod", &buf)
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Str("user", "alice").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"user":"alice"`)

	_, err = newLogger("loud", "prod", &buf)
	require.Error(t, err)
}

func TestNewLoggerDev(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("", "dev", &buf)
	require.NoError(t, err)
	logger.Debug().Msg("verbose")
	require.Contains(t, buf.String(), "verbose")
	require.False(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	logger, err = newLogger("warn", "dev", &buf)
	require.NoError(t, err)
	logger.Debug().Msg("verbose")
	logger.Info().Msg("chatty")
	logger.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "verbose")
	require.NotContains(t, buf.String(), "chatty")
	require.Contains(t, buf.String(), "shown")
}
