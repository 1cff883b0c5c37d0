package tui

import (
	"context"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/gcode"
)

// Runner executes one command line, writing its output to sink.
// *gcode.Registry satisfies it.
type Runner interface {
	Run(ctx context.Context, line string, sink gcode.Sink) error
}
