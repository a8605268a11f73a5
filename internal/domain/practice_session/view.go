package practicesession

import (
	"fmt"
	"strings"
)

// Labels shown by renderers.
const (
	LabelMulti     = "multiple choice"
	LabelSingle    = "single choice"
	LabelSubmit    = "submit answer"
	LabelSubmitted = "already submitted"
	LabelPrev      = "previous"
	LabelNext      = "next"
)

// OptionView is the visual and interactive state of one option.
type OptionView struct {
	Position int // 1-based, the digit key that toggles it
	Letter   string
	Content  string
	Selected bool
	Correct  bool
	Wrong    bool
	Disabled bool
}

type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackMemorize
	FeedbackCorrect
	FeedbackWrong
)

// Feedback is the verdict area under the options.
type Feedback struct {
	Kind          FeedbackKind
	Message       string
	UserAnswer    string
	CorrectAnswer string
}

type Button struct {
	Label    string
	Disabled bool
	Hidden   bool
}

// CardCell is one square of the answer card.
type CardCell struct {
	Index   int
	Number  int
	Correct bool
	Wrong   bool
	Current bool
}

// View is everything a renderer needs to draw the session.
type View struct {
	Project string
	Mode    Mode

	Number    int // 1-based
	Total     int
	TypeLabel string
	Text      string
	Submitted bool

	Options  []OptionView
	Feedback Feedback

	Prev   Button
	Next   Button
	Submit Button

	Card         []CardCell
	CardOpen     bool
	ScrollLocked bool
	Compact      bool

	Stats Stats

	Alert   string
	Confirm string // reset prompt, empty when not asking
}

// View projects the current state. It has no side effects.
func (s *Session) View() View {
	q := s.current()
	_, answered := s.answers[s.currentIndex]

	v := View{
		Project:      s.project,
		Mode:         s.mode,
		Number:       s.currentIndex + 1,
		Total:        s.total,
		TypeLabel:    LabelSingle,
		Text:         q.Text,
		Submitted:    answered,
		Options:      s.optionViews(),
		Feedback:     s.feedback(),
		Card:         s.card(),
		CardOpen:     s.cardOpen,
		ScrollLocked: s.cardOpen,
		Compact:      s.Compact(),
		Stats:        s.Stats(),
		Alert:        s.alert,
	}
	if q.IsMulti {
		v.TypeLabel = LabelMulti
	}
	if s.confirming {
		v.Confirm = ResetPrompt
	}

	v.Prev = Button{Label: LabelPrev, Disabled: s.currentIndex == 0}
	v.Next = Button{Label: LabelNext, Disabled: s.currentIndex == len(s.questions)-1}

	switch {
	case s.mode == ModeMemorize:
		v.Submit = Button{Label: LabelSubmit, Hidden: true, Disabled: true}
	case answered:
		v.Submit = Button{Label: LabelSubmitted, Disabled: true}
	default:
		v.Submit = Button{Label: LabelSubmit, Disabled: len(s.selected) == 0 || s.submitting}
	}

	return v
}

func (s *Session) optionViews() []OptionView {
	q := s.current()
	rec, answered := s.answers[s.currentIndex]

	out := make([]OptionView, len(q.Options))
	for i, o := range q.Options {
		ov := OptionView{Position: i + 1, Letter: o.Letter, Content: o.Content}
		correct := q.HasLetter(o.Letter)

		switch {
		case s.mode == ModeMemorize:
			ov.Correct = correct
			ov.Disabled = true
		case answered:
			picked := strings.Contains(rec.Answer, o.Letter)
			ov.Selected = picked
			ov.Correct = correct
			ov.Wrong = picked && !correct
			ov.Disabled = true
		default:
			ov.Selected = contains(s.selected, o.Letter)
		}
		out[i] = ov
	}
	return out
}

func (s *Session) feedback() Feedback {
	q := s.current()
	rec, answered := s.answers[s.currentIndex]

	switch {
	case s.mode == ModeMemorize:
		return Feedback{
			Kind:          FeedbackMemorize,
			Message:       fmt.Sprintf("Correct answer: %s", q.Answer),
			CorrectAnswer: q.Answer,
		}
	case answered && rec.Correct:
		return Feedback{
			Kind:          FeedbackCorrect,
			Message:       fmt.Sprintf("✓ Correct! Correct answer: %s", q.Answer),
			UserAnswer:    rec.Answer,
			CorrectAnswer: q.Answer,
		}
	case answered:
		return Feedback{
			Kind:          FeedbackWrong,
			Message:       fmt.Sprintf("✗ Wrong. Your answer: %s. Correct answer: %s", rec.Answer, q.Answer),
			UserAnswer:    rec.Answer,
			CorrectAnswer: q.Answer,
		}
	}
	return Feedback{Kind: FeedbackNone}
}

func (s *Session) card() []CardCell {
	cells := make([]CardCell, len(s.questions))
	for i := range s.questions {
		c := CardCell{Index: i, Number: i + 1, Current: i == s.currentIndex}
		if rec, ok := s.answers[i]; ok {
			c.Correct = rec.Correct
			c.Wrong = !rec.Correct
		}
		cells[i] = c
	}
	return cells
}

func contains(letters []string, letter string) bool {
	for _, l := range letters {
		if l == letter {
			return true
		}
	}
	return false
}
