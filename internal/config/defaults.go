package config

// Default returns the canonical runtime configuration used when no file
// is present.
func Default() Config {
	return Config{
		Theme:               ThemeAuto,
		AccentColour:        0xFF0A84FF,
		BarBackgroundColour: 0xFF0F1115,
	}
}
