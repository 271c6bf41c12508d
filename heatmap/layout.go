package heatmap

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultCellSize = 11
	DefaultCellGap  = 2
	MaxCellSize     = 64
	MaxCellGap      = 32

	paddingX      = 12
	legendSwatchX = 2
	legendLabelW  = 36
	legendTailW   = 40
)

// Config controls the grid geometry and decorations.
type Config struct {
	Theme      Theme
	Title      string
	ShowLegend bool
	ShowMonths bool
	WeekStart  time.Weekday
	CellSize   int
	CellGap    int
}

func DefaultConfig() Config {
	theme, _ := LookupTheme(DefaultTheme)
	return Config{
		Theme:     theme,
		WeekStart: time.Sunday,
		CellSize:  DefaultCellSize,
		CellGap:   DefaultCellGap,
	}
}

func (c Config) Validate() error {
	if c.CellSize < 1 || c.CellSize > MaxCellSize {
		return fmt.Errorf("cell size must be within 1..%d", MaxCellSize)
	}
	if c.CellGap < 0 || c.CellGap > MaxCellGap {
		return fmt.Errorf("cell gap must be within 0..%d", MaxCellGap)
	}
	if c.WeekStart != time.Sunday && c.WeekStart != time.Monday {
		return errors.New("week must start on sunday or monday")
	}
	return nil
}

// layout is the pixel geometry shared by the SVG and PNG renderers.
type layout struct {
	cfg    Config
	first  time.Time
	weeks  int
	top    int
	gridW  int
	gridH  int
	width  int
	height int
}

// weekdayRow is the grid row of date for a week beginning on start.
func weekdayRow(date time.Time, start time.Weekday) int {
	return (int(date.Weekday()) - int(start) + 7) % 7
}

// Position returns the grid column and row of the i-th day of a window whose
// first day is first.
func Position(first time.Time, weekStart time.Weekday, i int) (col, row int) {
	pos := weekdayRow(first, weekStart) + i
	return pos / 7, pos % 7
}

// Weeks is the number of grid columns needed for days starting at first.
func Weeks(first time.Time, weekStart time.Weekday, days int) int {
	return (weekdayRow(first, weekStart) + days + 6) / 7
}

func newLayout(buckets []DayBucket, cfg Config) (layout, error) {
	if len(buckets) == 0 {
		return layout{}, errors.New("no days to render")
	}
	if err := cfg.Validate(); err != nil {
		return layout{}, err
	}

	first := buckets[0].Date
	l := layout{cfg: cfg, first: first}
	l.weeks = Weeks(first, cfg.WeekStart, len(buckets))

	step := cfg.CellSize + cfg.CellGap
	l.gridW = l.weeks*step - cfg.CellGap
	l.gridH = 7*step - cfg.CellGap

	l.top = 10
	if cfg.Title != "" {
		l.top = 20
	}
	if cfg.ShowMonths {
		l.top += 12
	}
	bottom := 10
	if cfg.ShowLegend {
		bottom = 34
	}

	l.width = paddingX*2 + l.gridW
	if cfg.ShowLegend {
		if need := paddingX*2 + legendLabelW + l.legendSpan(); l.width < need {
			l.width = need
		}
	}
	l.height = l.top + l.gridH + bottom
	return l, nil
}

func (l layout) step() int {
	return l.cfg.CellSize + l.cfg.CellGap
}

// cell returns the top-left corner of the i-th day of the window.
func (l layout) cell(i int) (x, y int) {
	col, row := Position(l.first, l.cfg.WeekStart, i)
	return paddingX + col*l.step(), l.top + row*l.step()
}

func (l layout) column(i int) int {
	col, _ := Position(l.first, l.cfg.WeekStart, i)
	return col
}

func (l layout) legendSpan() int {
	return Levels*(l.cfg.CellSize+legendSwatchX) + legendTailW
}

// legendOrigin is the position of the first legend swatch.
func (l layout) legendOrigin() (x, y int) {
	return l.width - paddingX - l.legendSpan(), l.top + l.gridH + 14
}
