package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed geometry for a given terminal size.
type Layout struct {
	Header, Log, Input, Footer Rect
	TooSmall                   bool // true when terminal is below MinWidth×MinHeight
}

// Minimum terminal size.
const (
	MinWidth  = 40
	MinHeight = 8
)

// Calculate computes the layout for a terminal of the given dimensions:
// header, log, input and footer stacked top to bottom, one row each except
// the log, which takes the rest.
func Calculate(width, height int) Layout {
	if width < MinWidth || height < MinHeight {
		return Layout{TooSmall: true}
	}

	logH := height - 3

	return Layout{
		Header: Rect{X: 0, Y: 0, Width: width, Height: 1},
		Log:    Rect{X: 0, Y: 1, Width: width, Height: logH},
		Input:  Rect{X: 0, Y: 1 + logH, Width: width, Height: 1},
		Footer: Rect{X: 0, Y: height - 1, Width: width, Height: 1},
	}
}
