// Package capture grabs pixels and writes them to disk. The Backend
// interface keeps the daemon testable without a display attached.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/kbinani/screenshot"

	"github.com/dpilgrim/capit/internal/core"
)

// Backend produces PNG screenshots at the given path.
type Backend interface {
	// CaptureFull grabs the union of all displays.
	CaptureFull(path string) error
	// CaptureCrop grabs the given rectangle in layout coordinates.
	CaptureCrop(path string, rect core.Rect) error
}

// Screen is the live backend over the platform capture API.
type Screen struct{}

func (Screen) CaptureFull(path string) error {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return fmt.Errorf("no active displays")
	}

	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}

	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return fmt.Errorf("capture displays: %w", err)
	}
	return writePNG(path, img)
}

func (Screen) CaptureCrop(path string, rect core.Rect) error {
	if rect.W <= 0 || rect.H <= 0 {
		return fmt.Errorf("capture rect %s is empty", rect)
	}

	img, err := screenshot.Capture(rect.X, rect.Y, rect.W, rect.H)
	if err != nil {
		return fmt.Errorf("capture rect %s: %w", rect, err)
	}
	return writePNG(path, img)
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
