package client

import (
	"fmt"
	"io"

	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
)

// PrintStatus renders a Status response for the terminal.
func PrintStatus(w io.Writer, resp ipc.Response) {
	if !resp.Running {
		fmt.Fprintln(w, "daemon: not running")
		return
	}
	job := "idle"
	if resp.ActiveJob != nil {
		job = fmt.Sprintf("capturing (%s)", *resp.ActiveJob)
	}
	fmt.Fprintf(w, "daemon: running, %s\n", job)
}

// PrintOutputs renders the output list, one display per line.
func PrintOutputs(w io.Writer, outputs []core.OutputInfo) {
	if len(outputs) == 0 {
		fmt.Fprintln(w, "no outputs reported")
		return
	}
	for i, out := range outputs {
		fmt.Fprintf(w, "%d: %s %dx%d at %d,%d scale %d\n",
			i, out.Name, out.Width, out.Height, out.X, out.Y, out.Scale)
	}
}
