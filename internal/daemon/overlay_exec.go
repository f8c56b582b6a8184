package daemon

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dpilgrim/capit/internal/core"
)

// overlayCancelledExit is the helper's exit code for a user cancel, as
// opposed to a crash.
const overlayCancelledExit = 2

// ExecOverlay runs the picker surfaces as a separate helper binary so
// the daemon stays free of rendering stacks. The helper prints its
// result on stdout and exits 2 on cancel.
type ExecOverlay struct {
	// Command overrides the helper binary, default "capit-overlay".
	Command string
}

func (o ExecOverlay) command() string {
	if o.Command != "" {
		return o.Command
	}
	return "capit-overlay"
}

// PickRegion asks the helper for a rectangle, printed as "x y w h".
func (o ExecOverlay) PickRegion(outputs []core.OutputInfo, targetIdx int) (*core.Rect, error) {
	out, cancelled, err := o.run("region", "--output-index", strconv.Itoa(targetIdx))
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, nil
	}

	rect, err := parseRect(out)
	if err != nil {
		return nil, fmt.Errorf("overlay output: %w", err)
	}
	return rect, nil
}

// PickScreen asks the helper which output to capture, printed as an
// output name or "all".
func (o ExecOverlay) PickScreen(outputs []core.OutputInfo, initialIdx int) (*core.Target, error) {
	out, cancelled, err := o.run("screen", "--output-index", strconv.Itoa(initialIdx))
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, nil
	}

	name := strings.TrimSpace(out)
	if name == "" || name == "all" {
		target := core.AllScreens()
		return &target, nil
	}
	target := core.OutputByName(name)
	return &target, nil
}

func (o ExecOverlay) run(args ...string) (stdout string, cancelled bool, err error) {
	cmd := exec.Command(o.command(), args...)
	out, err := cmd.Output()
	if err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) && exit.ExitCode() == overlayCancelledExit {
			return "", true, nil
		}
		return "", false, fmt.Errorf("run %s: %w", o.command(), err)
	}
	return string(out), false, nil
}

func parseRect(s string) (*core.Rect, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return nil, fmt.Errorf("want \"x y w h\", got %q", strings.TrimSpace(s))
	}

	vals := make([]int, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("want \"x y w h\", got %q", strings.TrimSpace(s))
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return nil, fmt.Errorf("empty rect %q", strings.TrimSpace(s))
	}

	return &core.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}
