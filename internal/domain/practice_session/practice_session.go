package practicesession

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/drillroom/backend/internal/domain/questionbank"
)

var (
	ErrNoQuestions = errors.New("practice session needs at least one question")
	ErrInvalidMode = errors.New("invalid practice mode")

	// ErrRejected is matched (errors.Is) by backend errors for requests the
	// server answered with success=false. Those leave state untouched
	// without raising an alert.
	ErrRejected = errors.New("request rejected by server")
)

// User-facing alert and prompt texts.
const (
	AlertSubmitFailed = "Submit failed, please retry."
	AlertResetFailed  = "Reset failed, please retry."
	AlertResetDone    = "Progress has been reset."
	AlertAllCompleted = "Congratulations! All questions are completed!"
	ResetPrompt       = "Reset all progress for this project? This cannot be undone!"
)

// AnswerRecord is the stored outcome of one submitted question.
type AnswerRecord struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// SubmitResult is the server's verdict on a submitted answer.
type SubmitResult struct {
	Correct       bool
	CorrectAnswer string
}

// Backend grades answers and stores progress. The server is the source of
// truth for correctness; the session never grades on its own.
type Backend interface {
	SubmitAnswer(ctx context.Context, project string, index int, answer string) (SubmitResult, error)
	ResetProgress(ctx context.Context, project string) error
}

// SubmitRequest is a finalized answer waiting for the backend.
type SubmitRequest struct {
	Project string
	Index   int
	Answer  string
}

// ResetRequest is a confirmed reset waiting for the backend.
type ResetRequest struct {
	Project string
}

// Session drives one practice run over an immutable question list.
// It is not safe for concurrent use: a renderer owns it and calls it from a
// single event loop. Network calls can run elsewhere through the
// Prepare*/Apply* pairs.
type Session struct {
	project   string
	mode      Mode
	questions []questionbank.Question
	total     int
	backend   Backend
	rand      Randomizer
	logger    *slog.Logger

	currentIndex int
	selected     []string // pending, sorted letters
	answers      map[int]AnswerRecord

	submitting bool
	resetting  bool

	cardOpen      bool
	viewportWidth int
	compactWidth  int

	alert      string
	confirming bool
}

// New builds a session from the initial payload. In random mode the first
// question is picked among the unanswered ones.
func New(cfg Config, backend Backend) (*Session, error) {
	if len(cfg.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if !cfg.Mode.Valid() {
		return nil, ErrInvalidMode
	}

	s := &Session{
		project:      cfg.Project,
		mode:         cfg.Mode,
		questions:    cfg.Questions,
		total:        cfg.Total,
		backend:      backend,
		rand:         cfg.Rand,
		logger:       cfg.Logger,
		compactWidth: cfg.CompactWidth,
		answers:      make(map[int]AnswerRecord, len(cfg.PriorAnswers)),
	}
	if s.total == 0 {
		s.total = len(cfg.Questions)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.compactWidth == 0 {
		s.compactWidth = DefaultCompactWidth
	}

	for i, rec := range cfg.PriorAnswers {
		if i < 0 || i >= len(s.questions) {
			continue
		}
		s.answers[i] = rec
	}

	if s.mode == ModeRandom {
		if i, ok := s.randomUnanswered(); ok {
			s.currentIndex = i
		}
	}
	return s, nil
}

// CurrentIndex is the 0-based index of the displayed question.
func (s *Session) CurrentIndex() int { return s.currentIndex }

func (s *Session) current() questionbank.Question {
	return s.questions[s.currentIndex]
}

// IsSubmitted reports whether the displayed question already has a record.
func (s *Session) IsSubmitted() bool {
	_, ok := s.answers[s.currentIndex]
	return ok
}

// Answer returns the record for index, if any.
func (s *Session) Answer(index int) (AnswerRecord, bool) {
	rec, ok := s.answers[index]
	return rec, ok
}

// Answers returns a copy of all records.
func (s *Session) Answers() map[int]AnswerRecord {
	out := make(map[int]AnswerRecord, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Selected returns the letters shown as chosen for the displayed question:
// the submitted letters once answered, the pending selection otherwise.
func (s *Session) Selected() []string {
	if rec, ok := s.answers[s.currentIndex]; ok {
		return splitLetters(rec.Answer)
	}
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// Submitting reports whether a submit is waiting for the backend.
func (s *Session) Submitting() bool { return s.submitting }

// Resetting reports whether a reset is waiting for the backend.
func (s *Session) Resetting() bool { return s.resetting }

// Stats is the aggregate shown next to the answer card.
type Stats struct {
	Total    int
	Answered int
	Correct  int
}

func (s *Session) Stats() Stats {
	st := Stats{Total: s.total, Answered: len(s.answers)}
	for _, rec := range s.answers {
		if rec.Correct {
			st.Correct++
		}
	}
	return st
}

// blocked is true while an alert or the reset prompt is up.
func (s *Session) blocked() bool {
	return s.alert != "" || s.confirming
}

// Alert returns the pending blocking alert, if any.
func (s *Session) Alert() string { return s.alert }

func (s *Session) DismissAlert() { s.alert = "" }

// ── Selection ───────────────────────────────────────────────────────────────

// Toggle applies a click on the option with the given letter. Multi-choice
// questions toggle membership; single-choice questions replace the selection.
func (s *Session) Toggle(letter string) bool {
	if s.blocked() || s.mode == ModeMemorize || s.IsSubmitted() {
		return false
	}
	q := s.current()
	if !q.HasOption(letter) {
		return false
	}

	if !q.IsMulti {
		s.selected = []string{letter}
		return true
	}

	for i, l := range s.selected {
		if l == letter {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return true
		}
	}
	s.selected = append(s.selected, letter)
	sort.Strings(s.selected)
	return true
}

// ToggleAt toggles the option at a 1-based position, as digit keys do.
func (s *Session) ToggleAt(position int) bool {
	letter, ok := s.current().LetterAt(position)
	if !ok {
		return false
	}
	return s.Toggle(letter)
}

// ── Submit ──────────────────────────────────────────────────────────────────

// PrepareSubmit finalizes the pending selection. It returns false when there
// is nothing to send: empty selection, already answered, memorize mode, a
// submit already in flight, or a modal on screen.
func (s *Session) PrepareSubmit() (SubmitRequest, bool) {
	if s.blocked() || s.submitting || s.mode == ModeMemorize {
		return SubmitRequest{}, false
	}
	if len(s.selected) == 0 || s.IsSubmitted() {
		return SubmitRequest{}, false
	}

	s.submitting = true
	return SubmitRequest{
		Project: s.project,
		Index:   s.currentIndex,
		Answer:  strings.Join(s.selected, ""),
	}, true
}

// ApplySubmit absorbs the backend's verdict for req. The record lands on
// req.Index even if the user has navigated away meanwhile.
func (s *Session) ApplySubmit(req SubmitRequest, res SubmitResult, err error) {
	s.submitting = false

	if err != nil {
		if errors.Is(err, ErrRejected) {
			s.logger.Warn("answer rejected", "project", req.Project, "index", req.Index, "error", err)
			return
		}
		s.logger.Error("submit answer failed", "project", req.Project, "index", req.Index, "error", err)
		s.alert = AlertSubmitFailed
		return
	}
	if req.Index < 0 || req.Index >= len(s.questions) {
		return
	}

	s.answers[req.Index] = AnswerRecord{Answer: req.Answer, Correct: res.Correct}
	if req.Index == s.currentIndex {
		s.selected = nil
	}
}

// Submit sends the pending selection and waits for the verdict.
// It is a no-op returning nil when PrepareSubmit declines.
func (s *Session) Submit(ctx context.Context) error {
	req, ok := s.PrepareSubmit()
	if !ok {
		return nil
	}
	res, err := s.backend.SubmitAnswer(ctx, req.Project, req.Index, req.Answer)
	s.ApplySubmit(req, res, err)
	return err
}

// ── Navigation ──────────────────────────────────────────────────────────────

// GoTo displays question i, dropping the pending selection. Out-of-range
// indices are ignored. On compact viewports the answer card closes.
func (s *Session) GoTo(i int) bool {
	if s.blocked() || i < 0 || i >= len(s.questions) {
		return false
	}

	s.currentIndex = i
	s.selected = nil

	if s.Compact() {
		s.CloseCard()
	}
	return true
}

func (s *Session) Prev() bool {
	if s.currentIndex == 0 {
		return false
	}
	return s.GoTo(s.currentIndex - 1)
}

// Next advances one question. In random mode, while the displayed question is
// unanswered, it jumps to a random unanswered question instead, or raises the
// completion alert when none is left.
func (s *Session) Next() bool {
	if s.blocked() {
		return false
	}

	if s.mode == ModeRandom {
		i, ok := s.randomUnanswered()
		if !ok {
			s.alert = AlertAllCompleted
			return false
		}
		if !s.IsSubmitted() {
			return s.GoTo(i)
		}
	}

	if s.currentIndex >= len(s.questions)-1 {
		return false
	}
	return s.GoTo(s.currentIndex + 1)
}

func (s *Session) unansweredIndices() []int {
	out := make([]int, 0, len(s.questions)-len(s.answers))
	for i := range s.questions {
		if _, ok := s.answers[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

func (s *Session) randomUnanswered() (int, bool) {
	candidates := s.unansweredIndices()
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[s.rand.Intn(len(candidates))], true
}

// ── Reset ───────────────────────────────────────────────────────────────────

// RequestReset raises the destructive confirmation prompt.
// It is refused while a submit is in flight, since a late verdict would
// land in the cleared cache.
func (s *Session) RequestReset() bool {
	if s.blocked() || s.resetting || s.submitting {
		return false
	}
	s.confirming = true
	return true
}

func (s *Session) CancelReset() { s.confirming = false }

// Confirming reports whether the reset prompt is up.
func (s *Session) Confirming() bool { return s.confirming }

// PrepareReset consumes a confirmed prompt.
func (s *Session) PrepareReset() (ResetRequest, bool) {
	if !s.confirming || s.resetting || s.submitting {
		return ResetRequest{}, false
	}
	s.confirming = false
	s.resetting = true
	return ResetRequest{Project: s.project}, true
}

// ApplyReset clears all progress on success. On failure, state stays as it was.
func (s *Session) ApplyReset(req ResetRequest, err error) {
	s.resetting = false

	if err != nil {
		if errors.Is(err, ErrRejected) {
			s.logger.Warn("reset rejected", "project", req.Project, "error", err)
			return
		}
		s.logger.Error("reset progress failed", "project", req.Project, "error", err)
		s.alert = AlertResetFailed
		return
	}

	s.answers = make(map[int]AnswerRecord)
	s.selected = nil
	s.currentIndex = 0
	s.alert = AlertResetDone
}

// Reset performs a reset that the user has already confirmed.
// Without a confirmed prompt it does nothing.
func (s *Session) Reset(ctx context.Context) error {
	req, ok := s.PrepareReset()
	if !ok {
		return nil
	}
	err := s.backend.ResetProgress(ctx, req.Project)
	s.ApplyReset(req, err)
	return err
}

// ── Answer card overlay ─────────────────────────────────────────────────────

func (s *Session) OpenCard()  { s.cardOpen = true }
func (s *Session) CloseCard() { s.cardOpen = false }

func (s *Session) ToggleCard() {
	s.cardOpen = !s.cardOpen
}

func (s *Session) CardOpen() bool { return s.cardOpen }

// SetViewportWidth records the renderer's width; 0 means unknown.
func (s *Session) SetViewportWidth(w int) { s.viewportWidth = w }

// Compact reports whether the viewport counts as narrow.
func (s *Session) Compact() bool {
	return s.viewportWidth > 0 && s.viewportWidth <= s.compactWidth
}

// ── Keyboard ────────────────────────────────────────────────────────────────

// Key names, matching the strings bubbletea reports.
const (
	KeyLeft  = "left"
	KeyRight = "right"
	KeyEnter = "enter"
	KeyCard  = "c"
	KeyReset = "r"
)

// KeyEvent is a key press. Presses typed into a text field are ignored.
type KeyEvent struct {
	Key           string
	FromTextInput bool
}

// Intent tells the renderer which asynchronous action a key asked for.
type Intent int

const (
	IntentNone Intent = iota
	IntentSubmit
)

// HandleKey applies a keyboard shortcut. Digits 1-8 toggle options and follow
// the same rules as a click. Enter only asks for a submit when there is a
// selection on an unanswered question.
func (s *Session) HandleKey(ev KeyEvent) Intent {
	if ev.FromTextInput || s.blocked() {
		return IntentNone
	}

	switch ev.Key {
	case KeyLeft:
		s.Prev()
	case KeyRight:
		s.Next()
	case KeyEnter:
		if !s.IsSubmitted() && !s.submitting && len(s.selected) > 0 {
			return IntentSubmit
		}
	case KeyCard:
		s.ToggleCard()
	case KeyReset:
		s.RequestReset()
	case "1", "2", "3", "4", "5", "6", "7", "8":
		s.ToggleAt(int(ev.Key[0] - '0'))
	}
	return IntentNone
}

func splitLetters(answer string) []string {
	out := make([]string, 0, len(answer))
	for _, r := range answer {
		out = append(out, string(r))
	}
	return out
}
