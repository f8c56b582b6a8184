// Package config resolves, parses, and defaults capit configuration.
package config

// Theme selects the overlay palette.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeAuto, ThemeDark, ThemeLight:
		return true
	}
	return false
}

// Config is the fully materialized runtime configuration used by capit.
// Colours are packed ARGB.
type Config struct {
	ScreenshotDirectory string
	Theme               Theme
	AccentColour        uint32
	BarBackgroundColour uint32
}

// Warning is a non-fatal parse message. The offending value is replaced
// by its default.
type Warning struct {
	Message string
}

// fileConfig mirrors the on-disk TOML shape. Pointers distinguish unset
// keys from explicit values.
type fileConfig struct {
	Capit struct {
		ScreenshotDirectory *string `toml:"screenshot_directory"`
		Theme               *string `toml:"theme"`
		AccentColour        *string `toml:"accent_colour"`
		BarBackgroundColour *string `toml:"bar_background_colour"`
	} `toml:"capit"`
}
