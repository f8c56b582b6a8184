package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, and parses the runtime configuration. A missing
// file is not an error; defaults apply. Bad values inside an existing
// file downgrade to warnings and keep their defaults.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	base := Default()
	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Loaded{Path: resolvedPath, Config: base, Exists: false}, nil
		}
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	cfg, warnings, err := parse(string(content), base)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: warnings,
		Exists:   true,
	}, nil
}

// parse overlays the file's values onto base. Malformed TOML is fatal;
// a bad value for a known key becomes a warning.
func parse(content string, base Config) (Config, []Warning, error) {
	var file fileConfig
	if _, err := toml.Decode(content, &file); err != nil {
		return Config{}, nil, err
	}

	cfg := base
	var warnings []Warning
	warn := func(format string, args ...any) {
		warnings = append(warnings, Warning{Message: fmt.Sprintf(format, args...)})
	}

	if v := file.Capit.ScreenshotDirectory; v != nil {
		cfg.ScreenshotDirectory = ExpandPath(*v)
	}
	if v := file.Capit.Theme; v != nil {
		theme := Theme(*v)
		if theme.Valid() {
			cfg.Theme = theme
		} else {
			warn("theme %q not one of auto, dark, light; using %q", *v, base.Theme)
		}
	}
	if v := file.Capit.AccentColour; v != nil {
		if colour, err := ParseColour(*v); err == nil {
			cfg.AccentColour = colour
		} else {
			warn("accent_colour: %v", err)
		}
	}
	if v := file.Capit.BarBackgroundColour; v != nil {
		if colour, err := ParseColour(*v); err == nil {
			cfg.BarBackgroundColour = colour
		} else {
			warn("bar_background_colour: %v", err)
		}
	}

	return cfg, warnings, nil
}
