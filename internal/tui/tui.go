// Package tui implements the Bubble Tea terminal front-end.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/aezell/codescore/internal/config"
	"github.com/aezell/codescore/internal/highlight"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/selector"
	"github.com/aezell/codescore/internal/session"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

// fileChosenMsg is sent when the user picks a file, through the picker or
// on the command line.
type fileChosenMsg struct {
	path string
}

// analysisDoneMsg carries the outcome of one request.
type analysisDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

// Model is the top-level Bubble Tea model for codescore.
type Model struct {
	ctx     context.Context
	session *session.Session
	palette palette

	// UI state
	width  int
	height int

	picker  filepicker.Model
	picking bool
	spinner spinner.Model

	// Highlighted source of the selected file
	preview []highlight.Line

	// One-off message that is not part of the workflow state
	notice string

	showHelp bool

	initial string
	copy    func(string) error
}

// Options configures New.
type Options struct {
	Theme   config.ThemeConfig
	Dir     string // starting directory for the file picker
	Initial string // file to select on start, optional
}

// New creates a TUI model driving sess.
func New(ctx context.Context, sess *session.Session, opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = append([]string(nil), selector.AllowedExtensions...)
	fp.AutoHeight = true
	fp.ShowPermissions = false
	fp.CurrentDirectory = opts.Dir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = noticeStyle

	return Model{
		ctx:     ctx,
		session: sess,
		palette: newPalette(opts.Theme),
		picker:  fp,
		spinner: sp,
		initial: opts.Initial,
		copy:    clipboard.WriteAll,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return m.picker.Init()
	}
	path := m.initial
	return tea.Batch(m.picker.Init(), func() tea.Msg { return fileChosenMsg{path: path} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)

	case fileChosenMsg:
		m.choose(msg.path)
		return m, nil

	case analysisDoneMsg:
		m.session.Finish(msg.result, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !model.IsLoading(m.session.State()) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Directory listings and other picker internals.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Open):
		m.picking = true
		m.notice = ""
		return m, m.picker.Init()

	case key.Matches(msg, keys.Analyze):
		return m.submit()

	case key.Matches(msg, keys.Copy):
		m.copyRecommendations()

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Close) {
		m.picking = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	// The picker's type filter is only a hint: disabled entries are still
	// handed to the selector, which makes the final decision.
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.choose(path)
	} else if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.choose(path)
	}
	return m, cmd
}

// choose runs the selector on path and refreshes the preview.
func (m *Model) choose(path string) {
	m.picking = false
	m.notice = ""

	f, err := m.session.SelectPath(path)
	if err != nil {
		// The session reports the error, as Failed or as a Loading notice.
		m.preview = nil
		return
	}
	log.Debugf("Selected %s", filepath.Base(path))
	m.preview = highlight.Source(f.Name, string(f.Content))
}

// submit starts a request unless the submit control is disabled. Without a
// file the precondition error is surfaced instead.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.notice = ""
	if model.IsLoading(m.session.State()) {
		return m, nil
	}

	f, err := m.session.Begin()
	if err != nil {
		return m, nil
	}

	ctx, sess := m.ctx, m.session
	send := func() tea.Msg {
		res, err := sess.Send(ctx, f)
		return analysisDoneMsg{result: res, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, send)
}

func (m *Model) copyRecommendations() {
	res := model.Result(m.session.State())
	if res == nil || len(res.Recommendations) == 0 {
		m.notice = "No recommendations to copy"
		return
	}
	if err := m.copy(strings.Join(res.Recommendations, "\n")); err != nil {
		log.Warnf("Clipboard copy failed: %v", err)
		m.notice = "Could not copy to clipboard: " + err.Error()
		return
	}
	m.notice = "Recommendations copied to clipboard"
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	p := tea.NewProgram(New(ctx, sess, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
