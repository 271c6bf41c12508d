package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/rs/zerolog/log"

	"hfgrass/heatmap"
)

const (
	size    = 256
	blocks  = 7
	margin  = 24
	cellGap = 6
)

// pattern picks a level per cell so the logo reads as a patch of grass that
// thickens toward the bottom right.
func pattern(row, col int) int {
	return ((row + col) * 3 / 4) % heatmap.Levels
}

func drawLogo(theme heatmap.Theme) (*gg.Context, error) {
	dc := gg.NewContext(size, size)
	dc.ClearWithColor(gg.Hex(theme.Background))

	// Border
	dc.SetHexColor(theme.Colors[heatmap.Levels-1])
	dc.SetLineWidth(4)
	dc.DrawRoundedRectangle(2, 2, size-4, size-4, 24)
	if err := dc.Stroke(); err != nil {
		return nil, err
	}

	cell := float64(size-2*margin-(blocks-1)*cellGap) / blocks
	for row := 0; row < blocks; row++ {
		for col := 0; col < blocks; col++ {
			x := float64(margin) + float64(col)*(cell+cellGap)
			y := float64(margin) + float64(row)*(cell+cellGap)
			dc.SetHexColor(theme.Colors[pattern(row, col)])
			dc.DrawRoundedRectangle(x, y, cell, cell, 4)
			if err := dc.Fill(); err != nil {
				return nil, err
			}
		}
	}
	return dc, nil
}

func main() {
	out := flag.String("out", filepath.Join("assets", "hf_grass_logo.png"), "output PNG path")
	themeName := flag.String("theme", heatmap.DefaultTheme, "palette to draw with")
	flag.Parse()

	theme, err := heatmap.LookupTheme(*themeName)
	if err != nil {
		log.Fatal().Err(err).Msg("logo: bad theme")
	}

	dc, err := drawLogo(theme)
	if err != nil {
		log.Fatal().Err(err).Msg("logo: draw failed")
	}
	defer dc.Close()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal().Err(err).Msg("logo: create output dir")
	}
	if err := dc.SavePNG(*out); err != nil {
		log.Fatal().Err(err).Msg("logo: save png")
	}
	fmt.Println(*out)
}
