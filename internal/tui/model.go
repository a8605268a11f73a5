// Package tui renders a practice session in the terminal.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
)

type submitDoneMsg struct {
	Req    practicesession.SubmitRequest
	Result practicesession.SubmitResult
	Err    error
}

type resetDoneMsg struct {
	Req practicesession.ResetRequest
	Err error
}

// Model implements tea.Model around one session. The session is only
// touched from Update; network calls run as commands and report back.
type Model struct {
	ctx     context.Context
	session *practicesession.Session
	backend practicesession.Backend

	cursor int // answer-card cell under the cursor while the card is open
}

var _ tea.Model = Model{}

// New creates a Model. ctx bounds every backend call the model starts.
func New(ctx context.Context, s *practicesession.Session, backend practicesession.Backend) Model {
	return Model{ctx: ctx, session: s, backend: backend}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.session.SetViewportWidth(msg.Width)
		return m, nil

	case submitDoneMsg:
		m.session.ApplySubmit(msg.Req, msg.Result, msg.Err)
		return m, nil

	case resetDoneMsg:
		m.session.ApplyReset(msg.Req, msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an alert.
	if m.session.Alert() != "" {
		m.session.DismissAlert()
		return m, nil
	}

	if m.session.Confirming() {
		switch key {
		case "y", "Y":
			if req, ok := m.session.PrepareReset(); ok {
				return m, m.reset(req)
			}
		case "n", "N", "esc":
			m.session.CancelReset()
		}
		return m, nil
	}

	if m.session.CardOpen() {
		if next, ok := m.handleCardKey(key); ok {
			return next, nil
		}
	}

	wasOpen := m.session.CardOpen()
	switch key {
	case "q":
		return m, tea.Quit
	case "[", "esc":
		m.session.CloseCard()
		return m, nil
	case "]":
		m.session.OpenCard()
	default:
		if m.session.HandleKey(practicesession.KeyEvent{Key: key}) == practicesession.IntentSubmit {
			if req, ok := m.session.PrepareSubmit(); ok {
				return m, m.submit(req)
			}
		}
	}
	if !wasOpen && m.session.CardOpen() {
		m.cursor = m.session.CurrentIndex()
	}
	return m, nil
}

// handleCardKey moves the card cursor and jumps to the picked question.
// It reports false for keys the card does not use.
func (m Model) handleCardKey(key string) (Model, bool) {
	switch key {
	case "left":
		m.moveCursor(-1)
	case "right":
		m.moveCursor(1)
	case "up":
		m.moveCursor(-cardColumns)
	case "down":
		m.moveCursor(cardColumns)
	case "enter":
		m.session.GoTo(m.cursor)
		m.session.CloseCard()
	default:
		return m, false
	}
	return m, true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.session.View().Card)
	c := m.cursor + delta
	if c < 0 || c >= n {
		return
	}
	m.cursor = c
}

func (m Model) submit(req practicesession.SubmitRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := m.backend.SubmitAnswer(m.ctx, req.Project, req.Index, req.Answer)
		return submitDoneMsg{Req: req, Result: res, Err: err}
	}
}

func (m Model) reset(req practicesession.ResetRequest) tea.Cmd {
	return func() tea.Msg {
		err := m.backend.ResetProgress(m.ctx, req.Project)
		return resetDoneMsg{Req: req, Err: err}
	}
}
