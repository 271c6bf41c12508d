package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"hfgrass/config"
	"hfgrass/heatmap"
	"hfgrass/hfapi"
)

var errUsage = errors.New("usage")

// errReported marks usage errors the flag package has already printed along
// with the usage text.
var errReported = errors.New("already reported")

type options struct {
	user         string
	out          string
	activityType string
	theme        string
	weekStart    string
	title        string
	logLevel     string
	tzOffset     int
	days         int
	cellSize     int
	cellGap      int
	limit        int
	showLegend   bool
	showMonths   bool
	plot         bool
	browse       bool
	saveConfig   bool

	// Resolved by validate.
	filter heatmap.ActivityFilter
	render heatmap.Config
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseOptions layers flags over the environment over the config file, then
// validates the result. Nothing here touches the network.
func parseOptions(args []string, env config.Env, file config.File, stderr io.Writer) (options, error) {
	var opts options

	tzOffset := 0
	if file.TZOffset != nil {
		tzOffset = *file.TZOffset
	}
	days := heatmap.DefaultDays
	if file.Days > 0 {
		days = file.Days
	}

	fs := flag.NewFlagSet("hf-grass", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.user, "user", firstNonEmpty(env.Username, file.User), "Hugging Face username (or set HF_USERNAME)")
	fs.StringVar(&opts.out, "out", file.Out, "output SVG path")
	fs.StringVar(&opts.activityType, "activity-type", firstNonEmpty(file.ActivityType, string(heatmap.FilterAll)), "activity type filter: all, discussion, upvote, like")
	fs.BoolVar(&opts.showLegend, "show-legend", file.ShowLegend, "include a Less/More legend")
	fs.StringVar(&opts.theme, "theme", firstNonEmpty(file.Theme, heatmap.DefaultTheme), "color theme: "+strings.Join(heatmap.ThemeNames(), ", "))
	fs.IntVar(&opts.tzOffset, "tz-offset", tzOffset, "timezone offset in hours from UTC for daily buckets (e.g. 9 for KST)")
	fs.BoolVar(&opts.plot, "plot", false, "also write a PNG preview next to the SVG")
	fs.IntVar(&opts.days, "days", days, "number of days to show")
	fs.StringVar(&opts.weekStart, "week-start", firstNonEmpty(file.WeekStart, "sunday"), "first row of the grid: sunday or monday")
	fs.IntVar(&opts.cellSize, "cell-size", heatmap.DefaultCellSize, "cell size in px")
	fs.IntVar(&opts.cellGap, "cell-gap", heatmap.DefaultCellGap, "gap between cells in px")
	fs.StringVar(&opts.title, "title", file.Title, "title text at the top of the SVG (default \"Hugging Face activity (<user>)\")")
	fs.BoolVar(&opts.showMonths, "show-months", file.ShowMonths, "label month columns")
	fs.IntVar(&opts.limit, "limit", hfapi.DefaultLimit, "number of feed entries to request")
	fs.BoolVar(&opts.browse, "browse", false, "open an interactive terminal view after writing")
	fs.BoolVar(&opts.saveConfig, "save-config", false, "store the current flags as defaults in the config file")
	fs.StringVar(&opts.logLevel, "log-level", env.LogLevel, "log level: debug, info, warn, error (default info, debug when APP_ENV=dev)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %w: %v", errUsage, errReported, err)
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if err := opts.validate(); err != nil {
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	return opts, nil
}

func (o *options) validate() error {
	o.user = strings.TrimSpace(o.user)
	if o.user == "" {
		return errors.New("missing --user (or set HF_USERNAME)")
	}
	if strings.TrimSpace(o.out) == "" {
		return errors.New("missing --out")
	}

	filter, err := heatmap.ParseActivityFilter(o.activityType)
	if err != nil {
		return err
	}
	theme, err := heatmap.LookupTheme(o.theme)
	if err != nil {
		return err
	}
	if o.tzOffset < heatmap.MinTZOffset || o.tzOffset > heatmap.MaxTZOffset {
		return fmt.Errorf("--tz-offset must be within %d..%d", heatmap.MinTZOffset, heatmap.MaxTZOffset)
	}
	if o.days < 1 || o.days > heatmap.MaxDays {
		return fmt.Errorf("--days must be within 1..%d", heatmap.MaxDays)
	}
	if o.limit < 1 {
		return errors.New("--limit must be >= 1")
	}

	var weekStart time.Weekday
	switch strings.ToLower(o.weekStart) {
	case "sunday":
		weekStart = time.Sunday
	case "monday":
		weekStart = time.Monday
	default:
		return fmt.Errorf("unsupported week start %q", o.weekStart)
	}

	title := o.title
	if title == "" {
		title = fmt.Sprintf("Hugging Face activity (%s)", o.user)
	}
	render := heatmap.Config{
		Theme:      theme,
		Title:      title,
		ShowLegend: o.showLegend,
		ShowMonths: o.showMonths,
		WeekStart:  weekStart,
		CellSize:   o.cellSize,
		CellGap:    o.cellGap,
	}
	if err := render.Validate(); err != nil {
		return err
	}

	o.filter = filter
	o.render = render
	return nil
}

// fileDefaults captures the options worth persisting with --save-config.
func (o options) fileDefaults() config.File {
	offset := o.tzOffset
	return config.File{
		User:         o.user,
		Out:          o.out,
		Theme:        o.theme,
		ActivityType: o.activityType,
		WeekStart:    strings.ToLower(o.weekStart),
		TZOffset:     &offset,
		Days:         o.days,
		ShowLegend:   o.showLegend,
		ShowMonths:   o.showMonths,
		Title:        o.title,
	}
}
