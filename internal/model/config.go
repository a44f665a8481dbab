package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HMS is an hours/minutes/seconds-of-day triple, used by
// reject_hour_range entries in the config file.
type HMS struct {
	Hours   int `yaml:"hours"`
	Minutes int `yaml:"minutes"`
	Seconds int `yaml:"seconds"`
}

// HourRange is a [from, to) window of local time-of-day to reject, e.g.
// a configurable lunch block.
type HourRange struct {
	From HMS `yaml:"from"`
	To   HMS `yaml:"to"`
}

// Config is the room pool and policy knobs loaded from the config YAML.
type Config struct {
	SmallRooms    []string `yaml:"small_rooms"`
	LargeRooms    []string `yaml:"large_rooms"`

	RejectISOWeekday []int       `yaml:"reject_iso_weekday"`
	RejectHourRange  []HourRange `yaml:"reject_hour_range"`

	IgnoreAllDayEvents           *bool `yaml:"ignore_all_day_events"`
	IgnoreMeetingsWithNoResponse *bool `yaml:"ignore_meetings_with_no_response"`
}

// IgnoreAllDay returns the effective ignore_all_day_events setting,
// defaulting to true when the config omits it.
func (c *Config) IgnoreAllDay() bool {
	if c == nil || c.IgnoreAllDayEvents == nil {
		return true
	}
	return *c.IgnoreAllDayEvents
}

// IgnoreNoResponse returns the effective
// ignore_meetings_with_no_response setting, defaulting to true.
func (c *Config) IgnoreNoResponse() bool {
	if c == nil || c.IgnoreMeetingsWithNoResponse == nil {
		return true
	}
	return *c.IgnoreMeetingsWithNoResponse
}

// AllRooms returns the union of the small and large room pools, used
// by the orchestrator to build the full identity set to fetch
// availability for.
func (c *Config) AllRooms() []string {
	if c == nil {
		return nil
	}
	rooms := make([]string, 0, len(c.SmallRooms)+len(c.LargeRooms))
	rooms = append(rooms, c.SmallRooms...)
	rooms = append(rooms, c.LargeRooms...)
	return rooms
}

// LoadConfig reads and parses the config YAML file at path. A file
// that cannot be read (including an empty path) yields a KindConfig
// error and a nil Config.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Message: "cannot read config file " + path, Err: err}
	}
	return ParseConfig(raw)
}

// ParseConfig parses raw YAML bytes shaped like the config file.
func ParseConfig(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, &Error{Kind: KindConfig, Message: "malformed config YAML", Err: err}
	}
	for _, wd := range c.RejectISOWeekday {
		if wd < 1 || wd > 7 {
			return nil, &Error{Kind: KindConfig, Message: fmt.Sprintf("reject_iso_weekday entry %d out of range 1..7", wd)}
		}
	}
	return &c, nil
}
