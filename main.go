package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hfgrass/config"
	"hfgrass/heatmap"
	"hfgrass/hfapi"
)

// now is replaced in tests.
var now = time.Now

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	styles := newStyles()

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.errText.Render(err.Error()))
		return exitCode(fmt.Errorf("%w: %v", errUsage, err))
	}

	err = run(context.Background(), args, env, os.Stdout, os.Stderr)
	report(os.Stderr, styles, err)
	return exitCode(err)
}

// report prints err unless the flag package already did.
func report(w io.Writer, styles styleSet, err error) {
	if err == nil || errors.Is(err, flag.ErrHelp) || errors.Is(err, errReported) {
		return
	}
	fmt.Fprintln(w, styles.errText.Render("hf-grass: "+err.Error()))
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context, args []string, env config.Env, stdout, stderr io.Writer) error {
	file, err := config.LoadFile(env.ConfigPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	opts, err := parseOptions(args, env, file, stderr)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.logLevel, env.AppEnv, stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	window, err := heatmap.NewWindow(now(), opts.days, opts.tzOffset)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	client := hfapi.NewClient(env.APIBase, env.Timeout, logger)
	records, err := client.Records(ctx, hfapi.Query{
		User:         opts.user,
		ActivityType: string(opts.filter),
		Limit:        opts.limit,
	})
	if err != nil {
		return fmt.Errorf("fetch activity for %s: %w", opts.user, err)
	}

	records = heatmap.Filter(records, opts.filter)
	buckets := heatmap.Bucketize(records, window)
	logger.Debug().
		Str("start", window.Start.Format(time.DateOnly)).
		Str("end", window.End.Format(time.DateOnly)).
		Int("records", len(records)).
		Msg("bucketed activity")

	svg, err := heatmap.RenderSVG(buckets, opts.render)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(opts.out, []byte(svg)); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	logger.Info().Str("path", opts.out).Int("days", len(buckets)).Msg("heatmap written")

	if opts.saveConfig {
		path := env.ConfigPath
		if path == "" {
			if path, err = config.DefaultPath(); err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
		}
		if err := config.SaveFile(path, opts.fileDefaults()); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("defaults saved")
	}

	if opts.plot {
		path := previewPath(opts.out)
		var buf bytes.Buffer
		if err := heatmap.RenderPNG(&buf, buckets, opts.render); err != nil {
			return err
		}
		if err := writeFileAtomic(path, buf.Bytes()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info().Str("path", path).Msg("preview written")
	}

	total := heatmap.Total(buckets)
	fmt.Fprintln(stdout, newStyles().summary.Render(fmt.Sprintf("Saved %s with %d activities", opts.out, total)))

	if opts.browse {
		if _, err := tea.NewProgram(newBrowser(buckets, opts.render)).Run(); err != nil {
			return fmt.Errorf("browse: %w", err)
		}
	}
	return nil
}

// previewPath puts the PNG next to the SVG: assets/grass.svg becomes
// assets/grass-preview.png.
func previewPath(out string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + "-preview.png"
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so a failed write never leaves a partial file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".hf-grass-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
