// Package gcode is a small host command registry that understands
// Klipper's extended g-code syntax: NAME KEY=value KEY="quoted value".
package gcode

import (
	"fmt"
	"strings"
)

// Params holds the parameters of one command. Keys are upper-case.
type Params map[string]string

// Lookup returns the raw value of key and whether it was given.
func (p Params) Lookup(key string) (string, bool) {
	v, ok := p[strings.ToUpper(key)]
	return v, ok
}

// Get returns the value of key, or def when it was not given.
func (p Params) Get(key, def string) string {
	if v, ok := p.Lookup(key); ok {
		return v
	}
	return def
}

// Command is one parsed command line.
type Command struct {
	Name   string
	Params Params
	Raw    string
}

// Parse splits line into an upper-cased command name and its parameters.
// Text after an unquoted ';' is a comment. A blank line yields a Command
// with an empty Name.
func Parse(line string) (Command, error) {
	cmd := Command{Raw: line, Params: Params{}}

	s := strings.TrimSpace(stripComment(line))
	if s == "" {
		return cmd, nil
	}

	name, rest := s, ""
	if end := strings.IndexAny(s, " \t"); end >= 0 {
		name, rest = s[:end], s[end:]
	}
	cmd.Name = strings.ToUpper(name)

	i := 0
	for {
		for i < len(rest) && isSpace(rest[i]) {
			i++
		}
		if i >= len(rest) {
			break
		}

		start := i
		for i < len(rest) && rest[i] != '=' && !isSpace(rest[i]) {
			i++
		}
		if i >= len(rest) || rest[i] != '=' {
			return cmd, fmt.Errorf("malformed parameter %q in %s", rest[start:i], cmd.Name)
		}
		key := strings.ToUpper(rest[start:i])
		if key == "" {
			return cmd, fmt.Errorf("missing parameter name in %s", cmd.Name)
		}
		i++ // '='

		var value string
		if i < len(rest) && rest[i] == '"' {
			end := strings.IndexByte(rest[i+1:], '"')
			if end < 0 {
				return cmd, fmt.Errorf("unterminated quote in %s parameter %s", cmd.Name, key)
			}
			value = rest[i+1 : i+1+end]
			i += end + 2
		} else {
			vstart := i
			for i < len(rest) && !isSpace(rest[i]) {
				i++
			}
			value = rest[vstart:i]
		}
		cmd.Params[key] = value
	}

	return cmd, nil
}

// stripComment drops everything from the first ';' outside double quotes.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
