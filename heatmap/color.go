package heatmap

import (
	"fmt"
	"sort"
)

// Levels is the number of color steps, including the empty level 0.
const Levels = 5

// thresholds[i] is the smallest count that reaches level i+1.
var thresholds = [Levels - 1]int{1, 3, 6, 10}

// LevelFor maps a day's count to a level: 0, 1-2, 3-5, 6-9, 10+.
func LevelFor(count int) int {
	level := 0
	for i, floor := range thresholds {
		if count >= floor {
			level = i + 1
		}
	}
	return level
}

// Palette holds one color per level.
type Palette [Levels]string

type Theme struct {
	Name         string
	Background   string
	Text         string
	Colors       Palette
	SocialColors Palette
}

var themes = map[string]Theme{
	"light": {
		Name:         "light",
		Background:   "#ffffff",
		Text:         "#57606a",
		Colors:       Palette{"#ebedf0", "#ffe2b3", "#ffc266", "#ff9d00", "#ff7a00"},
		SocialColors: Palette{"#ebedf0", "#ffd6d6", "#ffb3b3", "#ff7a7a", "#ff4d4d"},
	},
	"github-dark": {
		Name:         "github-dark",
		Background:   "#0d1117",
		Text:         "#8b949e",
		Colors:       Palette{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
		SocialColors: Palette{"#161b22", "#3b1d1f", "#5b1e23", "#8b1d26", "#f85149"},
	},
}

const DefaultTheme = "light"

func LookupTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unsupported theme %q", name)
	}
	return t, nil
}

// ThemeNames returns the built-in theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaletteFor picks the social palette for days made only of upvotes and likes.
func (t Theme) PaletteFor(b DayBucket) Palette {
	if b.Kinds.SocialOnly() {
		return t.SocialColors
	}
	return t.Colors
}

func (t Theme) Fill(b DayBucket) string {
	return t.PaletteFor(b)[b.Level()]
}
