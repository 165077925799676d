package domain

import (
	"fmt"
	"strconv"
)

// DefaultDatePattern is used when the settings record has no date format.
const DefaultDatePattern = "MM/DD/YYYY"

// Settings is the tracking configuration kept alongside the tasks.
type Settings struct {
	DateFormat         string `json:"date_format" yaml:"date_format" toml:"date_format"`
	PauseOthersOnStart bool   `json:"pause_others_on_start" yaml:"pause_others_on_start" toml:"pause_others_on_start"`
}

// DefaultSettings returns the settings of a brand new store.
func DefaultSettings() Settings {
	return Settings{DateFormat: DefaultDatePattern}
}

// DateOnly returns the compiled date format, without a clock.
func (s Settings) DateOnly() DateFormat {
	pattern := s.DateFormat
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	return MustDateFormat(pattern)
}

// DateTime returns the date format followed by " h:mm".
func (s Settings) DateTime() DateFormat {
	return s.DateOnly().WithClock()
}

// Setting keys accepted by Get and Set.
const (
	SettingDateFormat  = "date_format"
	SettingPauseOthers = "pause_others_on_start"
)

// Get returns the string form of one setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case SettingDateFormat:
		return s.DateOnly().Pattern(), nil
	case SettingPauseOthers:
		return strconv.FormatBool(s.PauseOthersOnStart), nil
	default:
		return "", fmt.Errorf("%w: unknown key %q", ErrInvalidSetting, key)
	}
}

// Set validates and applies one setting.
func (s *Settings) Set(key, value string) error {
	switch key {
	case SettingDateFormat:
		f, err := ParseDateFormat(value)
		if err != nil {
			return err
		}
		if !f.HasDate() {
			return fmt.Errorf("%w: %q has no date tokens", ErrInvalidSetting, value)
		}
		s.DateFormat = f.Pattern()
	case SettingPauseOthers:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidSetting, key)
		}
		s.PauseOthersOnStart = b
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidSetting, key)
	}
	return nil
}
