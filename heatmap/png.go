package heatmap

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
)

// RenderPNG rasterizes the same grid as RenderSVG, without any text, and
// writes it to w as PNG.
func RenderPNG(w io.Writer, buckets []DayBucket, cfg Config) error {
	l, err := newLayout(buckets, cfg)
	if err != nil {
		return fmt.Errorf("heatmap: layout: %w", err)
	}

	dc := gg.NewContext(l.width, l.height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(cfg.Theme.Background))
	size := float64(cfg.CellSize)
	for i, day := range buckets {
		x, y := l.cell(i)
		dc.SetHexColor(cfg.Theme.Fill(day))
		dc.DrawRoundedRectangle(float64(x), float64(y), size, size, 2)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("heatmap: fill %s: %w", day.Date.Format(dateLayout), err)
		}
	}

	if cfg.ShowLegend {
		x, y := l.legendOrigin()
		for i, color := range cfg.Theme.Colors {
			dc.SetHexColor(color)
			dc.DrawRoundedRectangle(float64(x+i*(cfg.CellSize+legendSwatchX)), float64(y), size, size, 2)
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("heatmap: fill legend: %w", err)
			}
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("heatmap: encode png: %w", err)
	}
	return nil
}
