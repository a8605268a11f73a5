// internal/service/progress.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
	"github.com/drillroom/backend/internal/domain/questionbank"
	"github.com/drillroom/backend/internal/grader"
	"github.com/drillroom/backend/internal/store"
)

var (
	ErrInvalidInput     = errors.New("incomplete parameters")
	ErrQuestionNotFound = errors.New("question not found")
)

// BankSource resolves project IDs to question banks.
type BankSource interface {
	Bank(id string) (*questionbank.Bank, error)
}

// SubmitResult is the verdict for one submitted answer.
type SubmitResult struct {
	Correct       bool
	CorrectAnswer string
}

// ProgressService grades submitted answers and keeps per-user progress.
// It is the server-side source of truth the practice client trusts.
type ProgressService struct {
	store  store.Store
	banks  BankSource
	grader grader.Grader
	logger *slog.Logger
	now    func() time.Time
}

// NewProgressService creates a ProgressService.
func NewProgressService(s store.Store, banks BankSource, g grader.Grader, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		store:  s,
		banks:  banks,
		grader: g,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitAnswer grades answer for question index of project and stores it,
// replacing any earlier answer to the same question.
func (ps *ProgressService) SubmitAnswer(ctx context.Context, userKey, project string, index int, answer string) (SubmitResult, error) {
	if project == "" || answer == "" {
		return SubmitResult{}, ErrInvalidInput
	}

	q, err := ps.question(project, index)
	if err != nil {
		return SubmitResult{}, err
	}

	correct := ps.grader.Grade(q.Answer, answer)

	if err := ps.store.SaveAnswer(ctx, userKey, project, store.StoredAnswer{
		QuestionIndex: index,
		Answer:        answer,
		Correct:       correct,
		AnsweredAt:    ps.now(),
	}); err != nil {
		return SubmitResult{}, fmt.Errorf("save answer: %w", err)
	}

	ps.logger.Info("answer graded",
		"project", project,
		"index", index,
		"correct", correct,
	)
	return SubmitResult{Correct: correct, CorrectAnswer: q.Answer}, nil
}

// ResetProgress forgets every answer of the user for project.
func (ps *ProgressService) ResetProgress(ctx context.Context, userKey, project string) error {
	if project == "" {
		return ErrInvalidInput
	}
	if err := ps.store.ResetProject(ctx, userKey, project); err != nil {
		return fmt.Errorf("reset project: %w", err)
	}
	ps.logger.Info("progress reset", "project", project)
	return nil
}

// Answers returns the user's stored answers for project, ready to seed a
// practice session.
func (ps *ProgressService) Answers(ctx context.Context, userKey, project string) (map[int]practicesession.AnswerRecord, error) {
	stored, err := ps.store.ListAnswers(ctx, userKey, project)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	out := make(map[int]practicesession.AnswerRecord, len(stored))
	for i, a := range stored {
		out[i] = practicesession.AnswerRecord{Answer: a.Answer, Correct: a.Correct}
	}
	return out, nil
}

// RandomUnanswered picks a random question the user has not answered yet.
// allAnswered is true, and index meaningless, when none is left.
func (ps *ProgressService) RandomUnanswered(ctx context.Context, userKey, project string) (index int, allAnswered bool, err error) {
	if project == "" {
		return 0, false, ErrInvalidInput
	}
	bank, err := ps.banks.Bank(project)
	if err != nil {
		return 0, false, ErrQuestionNotFound
	}

	answered, err := ps.store.ListAnswers(ctx, userKey, project)
	if err != nil {
		return 0, false, fmt.Errorf("list answers: %w", err)
	}

	var unanswered []int
	for i := range bank.Questions {
		if _, ok := answered[i]; !ok {
			unanswered = append(unanswered, i)
		}
	}
	if len(unanswered) == 0 {
		return 0, true, nil
	}
	return unanswered[rand.Intn(len(unanswered))], false, nil
}

// Progress is the project summary shown on the project list.
type Progress struct {
	Total    int
	Answered int
	Correct  int
}

func (ps *ProgressService) Progress(ctx context.Context, userKey string, bank *questionbank.Bank) (Progress, error) {
	p, err := ps.store.GetProgress(ctx, userKey, bank.ID)
	if err != nil {
		return Progress{}, fmt.Errorf("get progress: %w", err)
	}
	return Progress{Total: bank.Total(), Answered: p.Answered, Correct: p.Correct}, nil
}

func (ps *ProgressService) question(project string, index int) (questionbank.Question, error) {
	bank, err := ps.banks.Bank(project)
	if err != nil {
		return questionbank.Question{}, ErrQuestionNotFound
	}
	q, ok := bank.Question(index)
	if !ok {
		return questionbank.Question{}, ErrQuestionNotFound
	}
	return q, nil
}
