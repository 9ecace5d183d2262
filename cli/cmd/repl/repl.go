// Package repl implements the interactive read-eval-print loop as a
// Bubble Tea program with fuzzy completion and persistent history.
package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zlang-dev/zlang/lang"
	"github.com/zlang-dev/zlang/log"
)

const (
	evalPrompt = "zlang> "
	ctrlPrompt = "     : "
)

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func banner() string {
	return bannerStyle.Render("ZLang") +
		hintStyle.Render(" — the language that hits different. ") +
		hintStyle.Render("Esc toggles commands, Ctrl+D exits.")
}

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement or expression to evaluate it
  The value of a trailing bare expression is printed back
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	interp     *lang.Interpreter
	printed    *bytes.Buffer // bruh output of the current input
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTabText string
	preTabCur  int
	width      int
	quitting   bool
	mode       inputMode
	evalText   string
	ctrlText   string
}

// Run starts the REPL with a persistent top-level environment. History is
// stored in a sqlite database inside cacheDir.
func Run(ctx context.Context, cacheDir string, logger log.Logger) error {
	if cacheDir == "" {
		return ErrNoCacheDir
	}

	history, err := OpenHistory(filepath.Join(cacheDir, baseHistory))
	if err != nil {
		return err
	}
	defer history.Close()

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history_entries", history.Len()),
	)

	printed := &bytes.Buffer{}
	interp := lang.New(
		lang.WithStdout(printed),
		lang.WithLogger(logger),
	)

	fmt.Println(banner())

	m := newModel(ctx, interp, printed, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	interp *lang.Interpreter,
	printed *bytes.Buffer,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		interp:     interp,
		printed:    printed,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		var hint string
		if m.mode == modeEval {
			hint = "Type a statement or press Esc for commands"
		} else {
			hint = "Type: help, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.width))
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current tab candidate without executing.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycleTab(1)

	case tea.KeyShiftTab:
		return m.cycleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCur)
			m.refreshMatches()

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		var cmd tea.Cmd

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches()

		return m, cmd
	}

	// Any other key (backspace, delete, arrows): update input and
	// recompute matches.
	var cmd tea.Cmd

	m.tabActive = false
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycleTab steps through completion candidates, replacing the current word
// in place.
func (m model) cycleTab(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCur = m.input.Position()

		if dir > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input
// with the given replacement text and repositions the cursor.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func (m *model) refreshMatches() {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	m.wordStart, m.wordEnd = start, end
	m.matches = matchWord(word, candidates(m.mode, m.interp.Globals()))

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText = ""
	m.ctrlText = ""
	m.input.SetValue("")
	m.tabActive = false
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
	)

	echoCmd := tea.Println(
		promptStyle.Render(evalPrompt) + inputStyle.Render(input),
	)

	m.printed.Reset()

	value, err := m.interp.Execute(input)

	lines := make([]tea.Cmd, 0, 3)
	lines = append(lines, echoCmd)

	if printed := strings.TrimRight(m.printed.String(), "\n"); printed != "" {
		lines = append(lines, tea.Println(printed))
	}

	if err != nil {
		// The top-level environment retains bindings made before the
		// failing statement; the prompt simply resumes.
		lines = append(lines, tea.Println(
			errorStyle.Render("error: "+err.Error()),
		))

		return m, tea.Sequence(lines...)
	}

	// Print the value of a trailing bare expression.
	if _, isNull := value.(lang.Null); !isNull {
		lines = append(lines, tea.Println(resultStyle.Render(value.String())))
	}

	return m, tea.Sequence(lines...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echoCmd := tea.Println(
		ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input),
	)

	switch strings.Fields(input)[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + input + " (try 'help')"),
		)
	}
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			if m.mode != entry.Mode {
				m = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			m.refreshMatches()
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			if m.mode != entry.Mode {
				m = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			m.refreshMatches()
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches()
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving each
// mode's pending input.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl), nil
	}

	return m.switchToMode(modeEval), nil
}

func (m model) switchToMode(mode inputMode) model {
	if m.mode == mode {
		return m
	}

	if m.mode == modeEval {
		m.evalText = m.input.Value()
	} else {
		m.ctrlText = m.input.Value()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
	}

	m.input.SetCursor(len(m.input.Value()))
	m.refreshMatches()

	return m
}
