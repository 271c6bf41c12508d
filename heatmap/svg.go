package heatmap

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const svgFont = `'IBM Plex Mono', ui-monospace, monospace`

// RenderSVG lays out one square per bucket and returns a standalone SVG
// document.
func RenderSVG(buckets []DayBucket, cfg Config) (string, error) {
	l, err := newLayout(buckets, cfg)
	if err != nil {
		return "", fmt.Errorf("heatmap: layout: %w", err)
	}
	theme := cfg.Theme
	first, last := buckets[0].Date, buckets[len(buckets)-1].Date

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg" role="img" aria-label="%s">`+"\n",
		l.width, l.height, l.width, l.height,
		escape(fmt.Sprintf("Hugging Face activity for %s to %s", first.Format(dateLayout), last.Format(dateLayout))))
	fmt.Fprintf(&b, "<style>.legend{font:11px %s;fill:%s}</style>\n", svgFont, theme.Text)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`+"\n", l.width, l.height, theme.Background)

	if cfg.Title != "" {
		fmt.Fprintf(&b, `<text x="%d" y="14" class="legend">%s</text>`+"\n", paddingX, escape(cfg.Title))
	}
	if cfg.ShowMonths {
		writeMonthLabels(&b, l, buckets)
	}

	b.WriteString("<g>\n")
	for i, day := range buckets {
		x, y := l.cell(i)
		fmt.Fprintf(&b, `<rect class="day" x="%d" y="%d" width="%d" height="%d" rx="2" ry="2" fill="%s" data-date="%s" data-count="%d" data-level="%d"><title>%s</title></rect>`+"\n",
			x, y, cfg.CellSize, cfg.CellSize, theme.Fill(day),
			day.Date.Format(dateLayout), day.Count, day.Level(), escape(tooltip(day)))
	}
	b.WriteString("</g>\n")

	if cfg.ShowLegend {
		writeLegend(&b, l)
	}
	b.WriteString("</svg>\n")
	return b.String(), nil
}

const dateLayout = "2006-01-02"

func tooltip(day DayBucket) string {
	noun := "activities"
	if day.Count == 1 {
		noun = "activity"
	}
	s := fmt.Sprintf("%s: %d %s", day.Date.Format(dateLayout), day.Count, noun)
	if day.Kinds != 0 {
		s += " (" + day.Kinds.String() + ")"
	}
	return s
}

// writeMonthLabels puts a short month name above the column holding the first
// of each month. The opening column is labelled too when at least two weeks of
// its month remain, so it cannot crowd the next label.
func writeMonthLabels(b *strings.Builder, l layout, buckets []DayBucket) {
	y := l.top - 4
	lastCol := -1
	for i, day := range buckets {
		if day.Date.Day() != 1 && !(i == 0 && day.Date.Day() <= 14) {
			continue
		}
		col := l.column(i)
		if col == lastCol {
			continue
		}
		lastCol = col
		x, _ := l.cell(i)
		fmt.Fprintf(b, `<text x="%d" y="%d" class="legend month">%s</text>`+"\n", x, y, day.Date.Format("Jan"))
	}
}

func writeLegend(b *strings.Builder, l layout) {
	size := l.cfg.CellSize
	x, y := l.legendOrigin()
	fmt.Fprintf(b, `<text x="%d" y="%d" class="legend">Less</text>`+"\n", x-legendLabelW, y+9)
	for i, color := range l.cfg.Theme.Colors {
		fmt.Fprintf(b, `<rect class="swatch" x="%d" y="%d" width="%d" height="%d" rx="2" ry="2" fill="%s"/>`+"\n",
			x+i*(size+legendSwatchX), y, size, size, color)
	}
	fmt.Fprintf(b, `<text x="%d" y="%d" class="legend">More</text>`+"\n", x+Levels*(size+legendSwatchX)+6, y+9)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
