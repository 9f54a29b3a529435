// Package model holds the GORM tables for saved map profiles and frame
// statistics.
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultProfile names the profile used before a character is known.
const DefaultProfile = "default"

// ProfileName resolves the profile for a save or load. A nil func or an
// empty name falls back to DefaultProfile.
func ProfileName(f func() string) string {
	if f == nil {
		return DefaultProfile
	}
	if name := f(); name != "" {
		return name
	}
	return DefaultProfile
}

// DatabaseModels is every table, in migration order.
var DatabaseModels = []interface{}{
	&Profile{},
	&FilterSetting{},
	&LocationTemplate{},
	&FrameStat{},
}

// Profile is one saved map configuration, keyed by character name.
type Profile struct {
	gorm.Model
	Name             string                         `json:"name" gorm:"size:64;uniqueIndex"`
	Settings         datatypes.JSONType[Settings]   `json:"settings"`
	LocationDefaults datatypes.JSONType[LocParams]  `json:"locationDefaults"`
	Clicks           datatypes.JSONType[ClickTable] `json:"clicks"`
	Filters          []FilterSetting                `json:"filters" gorm:"constraint:OnDelete:CASCADE;"`
	Locations        []LocationTemplate             `json:"locations" gorm:"constraint:OnDelete:CASCADE;"`
}

func (*Profile) TableName() string {
	return "profiles"
}

// Settings is the JSON document for the presentation settings. Queries are
// stored as their source text.
type Settings struct {
	ActiveLayer    int    `json:"activeLayer"`
	HighlightColor uint32 `json:"highlightColor"`
	HighlightSize  int    `json:"highlightSize"`
	HighlightPulse bool   `json:"highlightPulse"`
	NameFormat     string `json:"nameFormat"`
	TargetFormat   string `json:"targetFormat"`
	Custom         string `json:"custom"`
	HideRepeat     bool   `json:"hideRepeat"`
	HideQuery      string `json:"hideQuery"`
	ShowRepeat     bool   `json:"showRepeat"`
	ShowQuery      string `json:"showQuery"`
}

// LocParams is the JSON document for location drawing parameters.
type LocParams struct {
	LineSize     float64 `json:"lineSize"`
	Width        int     `json:"width"`
	Color        uint32  `json:"color"`
	CircleRadius float64 `json:"circleRadius"`
	CircleColor  uint32  `json:"circleColor"`
}

// ClickTable holds the click command strings indexed by modifier combo.
type ClickTable struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// FilterSetting is the saved state of one filter option.
type FilterSetting struct {
	ID         uint    `json:"id" gorm:"primarykey"`
	ProfileID  uint    `json:"profileId" gorm:"index:idx_filter_profile_name,unique"`
	Name       string  `json:"name" gorm:"size:32;index:idx_filter_profile_name,unique"`
	Enabled    bool    `json:"enabled"`
	Color      uint32  `json:"color"`
	Marker     string  `json:"marker" gorm:"size:16"`
	MarkerSize int     `json:"markerSize"`
	Radius     float64 `json:"radius"`
	CenterX    float64 `json:"centerX"`
	CenterY    float64 `json:"centerY"`
	CenterZ    float64 `json:"centerZ"`
}

func (*FilterSetting) TableName() string {
	return "filter_settings"
}

// LocationTemplate is a saved maploc. Seq keeps the user's insertion order.
type LocationTemplate struct {
	ID        uint                          `json:"id" gorm:"primarykey"`
	ProfileID uint                          `json:"profileId" gorm:"index"`
	Seq       int                           `json:"seq"`
	Label     string                        `json:"label" gorm:"size:255"`
	X         float64                       `json:"x"`
	Y         float64                       `json:"y"`
	Z         float64                       `json:"z"`
	Params    datatypes.JSONType[LocParams] `json:"params"`
	IsDefault bool                          `json:"isDefault"`
}

func (*LocationTemplate) TableName() string {
	return "location_templates"
}

// FrameStat is one monitor sample.
type FrameStat struct {
	Time            time.Time `json:"time" gorm:"index:idx_frame_stat_time"`
	Zone            string    `json:"zone" gorm:"size:64"`
	Frame           uint64    `json:"frame"`
	Objects         int       `json:"objects"`
	Labels          int       `json:"labels"`
	Lines           int       `json:"lines"`
	Locations       int       `json:"locations"`
	FrameDurationUs int64     `json:"frameDurationUs"`
	Faults          uint64    `json:"faults"`
	Regenerations   uint64    `json:"regenerations"`
	DroppedEvents   uint64    `json:"droppedEvents"`
}

func (*FrameStat) TableName() string {
	return "frame_stats"
}
