// Package outputs enumerates the attached displays.
package outputs

import (
	"fmt"

	"github.com/kbinani/screenshot"

	"github.com/dpilgrim/capit/internal/core"
)

// Query lists the current display layout. Display names are positional
// since the capture API does not expose connector names.
func Query() []core.OutputInfo {
	n := screenshot.NumActiveDisplays()
	infos := make([]core.OutputInfo, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		infos = append(infos, core.OutputInfo{
			Name:   fmt.Sprintf("display-%d", i),
			X:      bounds.Min.X,
			Y:      bounds.Min.Y,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Scale:  1,
		})
	}
	return infos
}
