package gcode

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Sink receives console output from commands.
type Sink interface {
	RespondInfo(msg string)
}

// ErrorSink is implemented by sinks that render errors differently from
// informational lines. Other sinks get errors as "!! " prefixed info lines.
type ErrorSink interface {
	RespondError(msg string)
}

// Handler executes one registered command.
type Handler interface {
	Handle(ctx context.Context, params Params, sink Sink) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, params Params, sink Sink) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, params Params, sink Sink) error {
	return f(ctx, params, sink)
}

// UnknownCommandError is returned by Run for a name nobody registered.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command:%q", e.Name)
}

// ErrDuplicateCommand is returned by Register when the name is taken.
var ErrDuplicateCommand = errors.New("gcode: command already registered")

type entry struct {
	handler Handler
	help    string
}

// Registry maps command names to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]entry
}

// NewRegistry returns a registry with the built-in HELP command.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]entry)}
	r.commands["HELP"] = entry{
		handler: HandlerFunc(r.help),
		help:    "Report the list of available extended G-Code commands",
	}
	return r
}

// Register adds a command. name is case-insensitive.
func (r *Registry) Register(name string, h Handler, help string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, " \t") {
		return fmt.Errorf("gcode: invalid command name %q", name)
	}
	if h == nil {
		return fmt.Errorf("gcode: nil handler for %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.commands[name] = entry{handler: h, help: help}
	return nil
}

// Commands returns the registered command names in sorted order.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help returns the help text of a registered command.
func (r *Registry) Help(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.commands[strings.ToUpper(name)]
	return e.help, ok
}

// Run parses line and executes the matching command. Blank lines and
// comments are no-ops. Parse errors, unknown commands and handler errors
// are written to sink as error lines and returned.
func (r *Registry) Run(ctx context.Context, line string, sink Sink) error {
	cmd, err := Parse(line)
	if err != nil {
		respondError(sink, err.Error())
		return err
	}
	if cmd.Name == "" {
		return nil
	}

	r.mu.RLock()
	e, ok := r.commands[cmd.Name]
	r.mu.RUnlock()
	if !ok {
		err := &UnknownCommandError{Name: cmd.Name}
		respondError(sink, err.Error())
		return err
	}

	if err := e.handler.Handle(ctx, cmd.Params, sink); err != nil {
		respondError(sink, err.Error())
		return err
	}
	return nil
}

func (r *Registry) help(_ context.Context, _ Params, sink Sink) error {
	var b strings.Builder
	b.WriteString("Available extended commands:")
	for _, name := range r.Commands() {
		h, _ := r.Help(name)
		if h == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%-10s: %s", name, h)
	}
	if sink != nil {
		sink.RespondInfo(b.String())
	}
	return nil
}

func respondError(sink Sink, msg string) {
	if sink == nil {
		return
	}
	if es, ok := sink.(ErrorSink); ok {
		es.RespondError(msg)
		return
	}
	sink.RespondInfo("!! " + msg)
}
