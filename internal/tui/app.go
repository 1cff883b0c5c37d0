package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/console"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/store"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/tui/panels"
)

// Options configures the console TUI.
type Options struct {
	Server      string
	Port        int
	Topic       string
	Verbose     bool
	AccentColor string

	// History, when set, supplies the sent/failed counters in the header.
	History store.Reader

	// Context is passed to every command. Defaults to context.Background().
	Context context.Context
}

// Model is the root bubbletea model of the command console.
type Model struct {
	// Command execution
	ctx     context.Context
	runner  Runner
	entries chan console.Entry
	sink    *console.ChannelSink
	history store.Reader

	// Widgets
	log     components.LogView
	input   textinput.Model
	spinner spinner.Model
	recall  inputHistory

	// Layout
	layout Layout
	theme  Theme
	width  int
	height int

	// Target
	server  string
	port    int
	topic   string
	verbose bool

	// Command state
	state     ConsoleState
	inFlight  int
	sent      int
	failed    int
	lastError string

	now time.Time
}

// New creates the console Model. entries carries command output from the
// ChannelSink the Model builds on it to the log; it should be buffered.
func New(runner Runner, entries chan console.Entry, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	th := NewTheme(opts.AccentColor)

	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = th.PromptStyle()
	in.Placeholder = `NTFY MSG="Print done" TITLE="Voron"`
	in.CharLimit = 1024
	in.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	layout := Calculate(80, 24)
	m := Model{
		ctx:     ctx,
		runner:  runner,
		entries: entries,
		sink:    console.NewChannelSink(entries),
		history: opts.History,
		log:     components.NewLogView(layout.Log.Width, layout.Log.Height),
		input:   in,
		spinner: sp,
		layout:  layout,
		theme:   th,
		width:   80,
		height:  24,
		server:  opts.Server,
		port:    opts.Port,
		topic:   opts.Topic,
		verbose: opts.Verbose,
		state:   StateIdle,
		now:     time.Now(),
	}
	m.input.Width = inputWidth(m.width)
	return m
}

// Init returns the initial commands: entry listener, clock ticker, cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEntry(m.entries), tickCmd(), textinput.Blink)
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEntry blocks on the entry channel and returns the next message.
func waitForEntry(ch <-chan console.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return entriesClosedMsg{}
		}
		return entryMsg(entry)
	}
}

// runCommand executes line off the UI goroutine.
func runCommand(ctx context.Context, r Runner, line string, sink *console.ChannelSink) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{line: line, err: r.Run(ctx, line, sink)}
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	case entryMsg:
		m.log = m.log.AppendLine(m.theme.RenderEntry(console.Entry(msg), m.layout.Log.Width))
		return m, waitForEntry(m.entries)
	case entriesClosedMsg:
		return m, nil
	case commandDoneMsg:
		return m.handleCommandDone(msg)
	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		m.log = m.log.SetSize(m.layout.Log.Width, m.layout.Log.Height)
		m.input.Width = inputWidth(m.layout.Input.Width)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCancel:
		return m, tea.Quit
	case keySubmit:
		return m.submit()
	case keyHistPrev:
		if h, line, ok := m.recall.Prev(); ok {
			m.recall = h
			m.input.SetValue(line)
			m.input.CursorEnd()
		}
		return m, nil
	case keyHistNext:
		if h, line, ok := m.recall.Next(); ok {
			m.recall = h
			m.input.SetValue(line)
			m.input.CursorEnd()
		}
		return m, nil
	case keyPageUp, keyPageDown:
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	case keyFollow:
		m.log = m.log.ToggleFollow()
		return m, nil
	case keyClear:
		m.log = m.log.Clear()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit echoes the input line to the log and runs it as a command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	m.recall = m.recall.Push(line)

	switch strings.ToLower(line) {
	case "quit", "exit":
		return m, tea.Quit
	}

	m.log = m.log.AppendLine(m.theme.RenderEntry(console.Entry{
		Kind:      console.KindCommand,
		Timestamp: time.Now(),
		Message:   line,
	}, m.layout.Log.Width))

	cmds := []tea.Cmd{runCommand(m.ctx, m.runner, line, m.sink)}
	if m.inFlight == 0 {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.inFlight++
	if m.state.CanTransitionTo(StateSending) {
		m.state = StateSending
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleCommandDone(msg commandDoneMsg) (tea.Model, tea.Cmd) {
	if m.inFlight > 0 {
		m.inFlight--
	}

	if msg.err != nil {
		m.lastError = msg.err.Error()
	}
	if m.inFlight == 0 {
		next := StateIdle
		if msg.err != nil {
			next = StateFailed
		}
		if m.state.CanTransitionTo(next) {
			m.state = next
		}
	}

	if m.history != nil {
		if sum, err := m.history.Summary(); err == nil {
			m.sent = sum.Total
			m.failed = sum.Failed
			if sum.LastError != "" {
				m.lastError = sum.LastError
			}
		}
	}
	return m, nil
}

// View renders the console: header, log, input line, footer.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.", m.width, m.height, MinWidth, MinHeight)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	spin := ""
	if m.inFlight > 0 {
		spin = m.spinner.View()
	}

	header := panels.RenderHeader(panels.HeaderProps{
		Server:      m.server,
		Port:        m.port,
		Topic:       m.topic,
		Verbose:     m.verbose,
		Sent:        m.sent,
		Failed:      m.failed,
		StateSymbol: m.state.Symbol(),
		StateLabel:  m.state.Label(),
		Spinner:     spin,
		Clock:       m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	footer := panels.RenderFooter(panels.FooterProps{
		Following: m.log.Following(),
		InFlight:  m.inFlight,
		LastError: m.lastError,
	}, m.layout.Footer.Width)

	logView := lipgloss.NewStyle().
		Width(m.layout.Log.Width).
		Height(m.layout.Log.Height).
		Render(m.log.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, logView, m.input.View(), footer)
}

// inputWidth leaves room for the prompt and cursor.
func inputWidth(total int) int {
	w := total - 3
	if w < 10 {
		w = 10
	}
	return w
}
