package tui_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
	"github.com/drillroom/backend/internal/domain/questionbank"
	"github.com/drillroom/backend/internal/tui"
)

type stubBackend struct {
	submits   int
	submitErr error
	resets    int
}

func (b *stubBackend) SubmitAnswer(context.Context, string, int, string) (practicesession.SubmitResult, error) {
	b.submits++
	if b.submitErr != nil {
		return practicesession.SubmitResult{}, b.submitErr
	}
	return practicesession.SubmitResult{Correct: true, CorrectAnswer: "A"}, nil
}

func (b *stubBackend) ResetProgress(context.Context, string) error {
	b.resets++
	return nil
}

func newModel(t *testing.T, backend *stubBackend) (tea.Model, *practicesession.Session) {
	t.Helper()

	qs := make([]questionbank.Question, 3)
	for i := range qs {
		qs[i] = questionbank.NewQuestion(i, fmt.Sprintf("Question %d A. one B. two", i+1), "A")
	}
	s, err := practicesession.New(practicesession.Config{
		Project:   "demo",
		Mode:      practicesession.ModeSequential,
		Questions: qs,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, backend)
	require.NoError(t, err)

	return tui.New(context.Background(), s, backend), s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds msg to m and runs the returned command, feeding its result
// back, the way the bubbletea runtime would.
func press(t *testing.T, m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	t.Helper()
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	if _, quit := out.(tea.QuitMsg); quit {
		return m, cmd
	}
	m, _ = m.Update(out)
	return m, nil
}

func TestSelectAndSubmit(t *testing.T) {
	backend := &stubBackend{}
	m, s := newModel(t, backend)

	m, _ = press(t, m, runes("1"))
	assert.Equal(t, []string{"A"}, s.Selected())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, backend.submits)
	assert.True(t, s.IsSubmitted())
	assert.Contains(t, m.View(), "Correct")

	// A second enter on the answered question sends nothing.
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, backend.submits)
}

func TestSubmitFailure_AlertBlocksUntilDismissed(t *testing.T) {
	backend := &stubBackend{submitErr: errors.New("connection refused")}
	m, s := newModel(t, backend)

	m, _ = press(t, m, runes("2"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, practicesession.AlertSubmitFailed, s.Alert())
	assert.Contains(t, m.View(), practicesession.AlertSubmitFailed)

	// The key that dismisses the alert does nothing else.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Empty(t, s.Alert())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.False(t, s.IsSubmitted())

	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, s.CurrentIndex())
}

func TestNavigation(t *testing.T) {
	m, s := newModel(t, &stubBackend{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, s.CurrentIndex())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, s.CurrentIndex())
}

func TestReset_ConfirmAndCancel(t *testing.T) {
	backend := &stubBackend{}
	m, s := newModel(t, backend)

	m, _ = press(t, m, runes("1"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, s.Stats().Answered)

	m, _ = press(t, m, runes("r"))
	assert.True(t, s.Confirming())
	assert.Contains(t, m.View(), practicesession.ResetPrompt)

	m, _ = press(t, m, runes("n"))
	assert.False(t, s.Confirming())
	assert.Equal(t, 0, backend.resets)

	m, _ = press(t, m, runes("r"))
	m, _ = press(t, m, runes("y"))
	assert.Equal(t, 1, backend.resets)
	assert.Equal(t, 0, s.Stats().Answered)
	assert.Equal(t, practicesession.AlertResetDone, s.Alert())

	press(t, m, runes("x"))
	assert.Empty(t, s.Alert())
}

func TestCardOverlay_CompactViewport(t *testing.T) {
	m, s := newModel(t, &stubBackend{})

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.True(t, s.Compact())

	m, _ = press(t, m, runes("c"))
	assert.True(t, s.CardOpen())
	assert.NotContains(t, m.View(), "Question 1")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, s.CardOpen())

	m, _ = press(t, m, runes("]"))
	assert.True(t, s.CardOpen())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, s.CardOpen(), "arrows move the card cursor while the card is open")
	assert.Equal(t, 0, s.CurrentIndex())

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, s.CurrentIndex())
	assert.False(t, s.CardOpen(), "picking a cell on a narrow viewport closes the card")
}

func TestCardCursor_JumpsToPickedQuestion(t *testing.T) {
	backend := &stubBackend{}
	m, s := newModel(t, backend)

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	m, _ = press(t, m, runes("c"))
	require.True(t, s.CardOpen())

	// The cursor stops at the last cell.
	for i := 0; i < 5; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 2, s.CurrentIndex())
	assert.False(t, s.CardOpen())
	assert.Equal(t, 0, backend.submits, "enter on the card picks a cell, it does not submit")
	assert.Contains(t, m.View(), "Question 3")

	// Reopening starts the cursor on the current question.
	m, _ = press(t, m, runes("c"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, s.CurrentIndex())
}

func TestCardCursor_WideViewportClosesAfterPick(t *testing.T) {
	m, s := newModel(t, &stubBackend{})

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	m, _ = press(t, m, runes("]"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 2, s.CurrentIndex())
	assert.False(t, s.CardOpen())
}

func TestWideViewport_ShowsCardBesideQuestion(t *testing.T) {
	m, _ := newModel(t, &stubBackend{})

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	view := m.View()

	assert.Contains(t, view, "Question 1")
	assert.Contains(t, view, "answered 0/3")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, &stubBackend{})

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
