package tui

// maxHistory bounds the number of remembered input lines.
const maxHistory = 100

// inputHistory is the up/down recall buffer of the input line.
// pos == len(lines) means "not browsing".
type inputHistory struct {
	lines []string
	pos   int
}

// Push records line and resets browsing. Consecutive duplicates are kept once.
func (h inputHistory) Push(line string) inputHistory {
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
		if len(h.lines) > maxHistory {
			h.lines = h.lines[len(h.lines)-maxHistory:]
		}
	}
	h.pos = len(h.lines)
	return h
}

// Prev moves to the previous line. ok is false when there is none.
func (h inputHistory) Prev() (inputHistory, string, bool) {
	if h.pos == 0 {
		return h, "", false
	}
	h.pos--
	return h, h.lines[h.pos], true
}

// Next moves to the next line; past the newest it returns "" to clear input.
func (h inputHistory) Next() (inputHistory, string, bool) {
	if h.pos >= len(h.lines) {
		return h, "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		return h, "", true
	}
	return h, h.lines[h.pos], true
}
