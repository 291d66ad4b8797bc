package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"prospectflow/internal/config"
	"prospectflow/internal/navigator"
	"prospectflow/internal/repository"
	"prospectflow/internal/theme"
)

// Importer loads accounts from a CSV source.
type Importer interface {
	ImportAccountsCSV(ctx context.Context, src io.Reader) (repository.ImportResult, error)
}

// Program wraps the Bubble Tea program lifecycle.
type Program struct {
	program *tea.Program
}

// NewProgram constructs a new interactive tracker session.
func NewProgram(nav *navigator.Navigator, importer Importer, cfg *config.Store, logger *zap.Logger) *Program {
	m := newModel(nav, importer, cfg, logger)
	return &Program{program: tea.NewProgram(m)}
}

// Start launches the Bubble Tea program and blocks until it exits.
func (p *Program) Start() error {
	if p == nil || p.program == nil {
		return fmt.Errorf("nil program")
	}
	_, err := p.program.Run()
	return err
}

type inputMode int

const (
	modeCommand inputMode = iota
	modeForm
	modeInteraction
	modeConfirm
	modeSettings
)

type model struct {
	nav      *navigator.Navigator
	importer Importer
	cfg      *config.Store
	logger   *zap.Logger
	theme    theme.Theme
	now      func() time.Time
	width    int
	height   int

	infoMessage string
	errMessage  string

	mode     inputMode
	input    textinput.Model
	form     entityForm
	wizard   interactionWizard
	confirm  confirmPrompt
	settings settingsPanel

	screen navigator.Screen
}

func newModel(nav *navigator.Navigator, importer Importer, cfg *config.Store, logger *zap.Logger) *model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &model{
		nav:      nav,
		importer: importer,
		cfg:      cfg,
		logger:   logger,
		theme:    theme.Default(),
		now:      time.Now,
	}
	m.setMenuInput(commandPlaceholder, 256)
	m.sync()
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeForm:
		cmd = m.updateForm(msg)
	case modeInteraction:
		cmd = m.updateWizard(msg)
	case modeConfirm:
		cmd = m.updateConfirm(msg)
	case modeSettings:
		cmd = m.updateSettings(msg)
	default:
		cmd = m.updateCommand(msg)
	}
	return m, cmd
}

func (m *model) View() string {
	switch m.mode {
	case modeForm:
		return m.frame(m.viewForm())
	case modeInteraction:
		return m.frame(m.viewWizard())
	case modeConfirm:
		return m.frame(m.viewConfirm())
	case modeSettings:
		return m.frame(m.viewSettings())
	}
	return m.frame(m.viewScreen())
}

// sync refreshes the screen from the navigator and opens or closes the
// entity form to match the current view.
func (m *model) sync() tea.Cmd {
	m.screen = m.nav.Screen()
	isForm := m.screen.View == navigator.ViewAddAccount || m.screen.View == navigator.ViewAddProspect
	switch {
	case isForm && m.mode != modeForm:
		m.form = newEntityForm(m.screen)
		m.mode = modeForm
		return m.setMenuInput(m.form.current().label, 256, m.form.current().value)
	case !isForm && m.mode == modeForm:
		m.mode = modeCommand
		return m.setMenuInput(commandPlaceholder, 256)
	}
	return nil
}

func (m *model) resetMessages() {
	m.errMessage = ""
	m.infoMessage = ""
}

// setMenuInput replaces the prompt, optionally seeding it with a value.
func (m *model) setMenuInput(placeholder string, limit int, value ...string) tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	if limit > 0 {
		input.CharLimit = limit
	}
	if len(value) > 0 {
		input.SetValue(value[0])
	}
	cmd := input.Focus()
	m.input = input
	return cmd
}

// returnToCommand leaves any modal prompt and refreshes the screen.
func (m *model) returnToCommand() tea.Cmd {
	m.mode = modeCommand
	return batchCmds([]tea.Cmd{m.setMenuInput(commandPlaceholder, 256), m.sync()})
}

func batchCmds(cmds []tea.Cmd) tea.Cmd {
	filtered := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return tea.Batch(filtered...)
	}
}

func (m *model) location() *time.Location {
	return m.cfg.Location()
}
