package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
)

const cardColumns = 10

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	currentStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(1, 2)
)

func (m Model) View() string {
	v := m.session.View()

	switch {
	case v.Alert != "":
		return renderDialog(v.Alert, "press any key")
	case v.Confirm != "":
		return renderDialog(v.Confirm, "y: reset · n: cancel")
	}

	body := m.renderQuestion(v)
	switch {
	case !v.Compact:
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", panelStyle.Render(renderCard(v.Card, m.cursor, v.CardOpen)))
	case v.CardOpen:
		// The overlay covers the question until it is closed.
		body = panelStyle.Render(renderCard(v.Card, m.cursor, v.CardOpen))
	}

	stats := renderStats(v.Stats)
	if m.session.Resetting() {
		stats += faintStyle.Render(" · resetting...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		stats,
		faintStyle.Render(keyHints(v)),
	)
}

func (m Model) renderQuestion(v practicesession.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n",
		titleStyle.Render(fmt.Sprintf("%s · %s", v.Project, v.Mode)),
		faintStyle.Render(fmt.Sprintf("%d / %d", v.Number, v.Total)),
	)
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("["+v.TypeLabel+"]"), v.Text)

	for _, o := range v.Options {
		b.WriteString(renderOption(o))
		b.WriteString("\n")
	}

	if fb := renderFeedback(v.Feedback); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}

	b.WriteString("\n" + m.renderButtons(v))
	return b.String()
}

func renderOption(o practicesession.OptionView) string {
	line := fmt.Sprintf("%d  %s. %s", o.Position, o.Letter, o.Content)

	var style lipgloss.Style
	switch {
	case o.Correct:
		style = correctStyle
	case o.Wrong:
		style = wrongStyle
	case o.Disabled:
		style = faintStyle
	default:
		style = lipgloss.NewStyle()
	}
	if o.Selected {
		style = style.Inherit(selectedStyle)
	}
	return style.Render(line)
}

func renderFeedback(f practicesession.Feedback) string {
	switch f.Kind {
	case practicesession.FeedbackCorrect, practicesession.FeedbackMemorize:
		return correctStyle.Render(f.Message)
	case practicesession.FeedbackWrong:
		return wrongStyle.Render(f.Message)
	}
	return ""
}

func (m Model) renderButtons(v practicesession.View) string {
	parts := []string{renderButton("← "+v.Prev.Label, v.Prev)}
	if !v.Submit.Hidden {
		label := "enter: " + v.Submit.Label
		if m.session.Submitting() {
			label = "submitting..."
		}
		parts = append(parts, renderButton(label, v.Submit))
	}
	parts = append(parts, renderButton(v.Next.Label+" →", v.Next))
	return strings.Join(parts, "   ")
}

func renderButton(label string, b practicesession.Button) string {
	if b.Disabled {
		return faintStyle.Render(label)
	}
	return titleStyle.Render(label)
}

// renderCard draws the grid; when active, the cell at cursor is highlighted.
func renderCard(cells []practicesession.CardCell, cursor int, active bool) string {
	var b strings.Builder
	for i, c := range cells {
		cell := fmt.Sprintf("%3d", c.Number)
		switch {
		case c.Correct:
			cell = correctStyle.Render(cell)
		case c.Wrong:
			cell = wrongStyle.Render(cell)
		}
		if c.Current {
			cell = currentStyle.Render(cell)
		}
		if active && i == cursor {
			cell = selectedStyle.Render(cell)
		}
		b.WriteString(cell)
		if (i+1)%cardColumns == 0 && i+1 < len(cells) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderStats(s practicesession.Stats) string {
	return fmt.Sprintf("answered %d/%d · correct %d", s.Answered, s.Total, s.Correct)
}

func renderDialog(text, hint string) string {
	return dialogStyle.Render(text + "\n\n" + faintStyle.Render(hint))
}

func keyHints(v practicesession.View) string {
	if v.CardOpen {
		return "arrows pick · enter go · esc close · q quit"
	}
	hints := []string{"←/→ move"}
	if v.Mode != practicesession.ModeMemorize && !v.Submitted {
		hints = append(hints, "1-8 select", "enter submit")
	}
	hints = append(hints, "c card", "r reset", "q quit")
	return strings.Join(hints, " · ")
}
