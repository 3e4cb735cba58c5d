package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// heuristicsFile is the YAML representation of the tuning file.
// Absent keys leave the environment value in place.
type heuristicsFile struct {
	Timezone         *string  `yaml:"timezone"`
	DailyCapacity    *float64 `yaml:"daily_capacity"`
	MinutesPerPage   *int     `yaml:"minutes_per_page"`
	FocusDuration    *string  `yaml:"focus_duration"`
	UpNextLimit      *int     `yaml:"up_next_limit"`
	UrgentWithinDays *int     `yaml:"urgent_within_days"`
	FocusWindowDays  *int     `yaml:"focus_window_days"`
}

// ApplyHeuristicsFile overrides heuristics and the default timer duration
// from a YAML file
func (c *Config) ApplyHeuristicsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read heuristics file: %w", err)
	}

	var f heuristicsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse heuristics YAML: %w", err)
	}

	h := &c.Heuristics
	if f.Timezone != nil {
		h.Timezone = *f.Timezone
	}
	if f.DailyCapacity != nil {
		h.DailyCapacity = *f.DailyCapacity
	}
	if f.MinutesPerPage != nil {
		h.MinutesPerPage = *f.MinutesPerPage
	}
	if f.UpNextLimit != nil {
		h.UpNextLimit = *f.UpNextLimit
	}
	if f.UrgentWithinDays != nil {
		h.UrgentWithinDays = *f.UrgentWithinDays
	}
	if f.FocusWindowDays != nil {
		h.FocusWindowDays = *f.FocusWindowDays
	}
	if f.FocusDuration != nil {
		d, err := time.ParseDuration(*f.FocusDuration)
		if err != nil {
			return fmt.Errorf("invalid focus_duration %q: %w", *f.FocusDuration, err)
		}
		c.Timer.DefaultDuration = d
	}

	slog.Info("heuristics loaded", "file", path,
		"daily_capacity", h.DailyCapacity,
		"minutes_per_page", h.MinutesPerPage,
		"focus_duration", c.Timer.DefaultDuration.String(),
	)

	return nil
}
