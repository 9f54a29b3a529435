package overlay

import (
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/pkg/core"
)

// Settings are the presentation options shared by every overlay object.
type Settings struct {
	// ActiveLayer is the map layer new primitives are drawn on (0-3).
	ActiveLayer int

	HighlightColor core.Color
	HighlightSize  int
	HighlightPulse bool

	// NameFormat and TargetFormat are label templates, see Object.Format.
	NameFormat   string
	TargetFormat string

	// Custom is evaluated when the Custom filter is enabled.
	Custom search.Query

	// The last hide and show queries are re-applied after every
	// regenerate while their repeat flag is set.
	HideRepeat bool
	HideQuery  search.Query
	ShowRepeat bool
	ShowQuery  search.Query
}

// DefaultSettings returns the stock presentation settings.
func DefaultSettings() Settings {
	return Settings{
		ActiveLayer:    3,
		HighlightColor: core.RGB(112, 0, 112),
		HighlightSize:  10,
		NameFormat:     "%N",
		TargetFormat:   "%N",
		Custom:         search.New(),
		HideQuery:      search.New(),
		ShowQuery:      search.New(),
	}
}
