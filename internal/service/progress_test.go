package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/drillroom/backend/internal/catalog"
	"github.com/drillroom/backend/internal/domain/questionbank"
	"github.com/drillroom/backend/internal/grader"
	"github.com/drillroom/backend/internal/service"
	"github.com/drillroom/backend/internal/store"
)

func newService(t *testing.T) (*service.ProgressService, *catalog.Catalog) {
	t.Helper()

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bank, _ := questionbank.New("ch1", "ch1", "", "ch1.json", []questionbank.RawQuestion{
		{Q: "One A. x B. y", A: "A"},
		{Q: "Two A. x B. y C. z", A: "AC"},
		{Q: "Three A. x B. y", A: "B"},
	})
	cat := catalog.New(bank)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewProgressService(db, cat, grader.LetterGrader{}, logger), cat
}

func TestSubmitAnswer_GradesOrderIndependently(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.SubmitAnswer(ctx, "u1", "ch1", 1, "CA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct || res.CorrectAnswer != "AC" {
		t.Errorf("unexpected result %+v", res)
	}

	res, _ = svc.SubmitAnswer(ctx, "u1", "ch1", 0, "B")
	if res.Correct {
		t.Error("expected B to be wrong for question 1")
	}

	answers, _ := svc.Answers(ctx, "u1", "ch1")
	if len(answers) != 2 {
		t.Fatalf("expected 2 stored answers, got %d", len(answers))
	}
	if answers[1].Answer != "CA" || !answers[1].Correct {
		t.Errorf("unexpected stored answer %+v", answers[1])
	}
}

func TestSubmitAnswer_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.SubmitAnswer(ctx, "u1", "", 0, "A"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty project, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "u1", "ch1", 0, ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty answer, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "u1", "ch1", 3, "A"); !errors.Is(err, service.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound for index 3, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "u1", "ch1", -1, "A"); !errors.Is(err, service.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound for index -1, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "u1", "nope", 0, "A"); !errors.Is(err, service.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound for unknown project, got %v", err)
	}
}

func TestResetProgress(t *testing.T) {
	svc, cat := newService(t)
	ctx := context.Background()

	svc.SubmitAnswer(ctx, "u1", "ch1", 0, "A")
	svc.SubmitAnswer(ctx, "u2", "ch1", 0, "A")

	if err := svc.ResetProgress(ctx, "u1", "ch1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bank, _ := cat.Bank("ch1")
	p, _ := svc.Progress(ctx, "u1", bank)
	if p != (service.Progress{Total: 3}) {
		t.Errorf("expected (3, 0, 0) for u1, got %+v", p)
	}
	p, _ = svc.Progress(ctx, "u2", bank)
	if p.Answered != 1 || p.Correct != 1 {
		t.Errorf("expected u2 untouched, got %+v", p)
	}

	if err := svc.ResetProgress(ctx, "u1", ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRandomUnanswered(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.SubmitAnswer(ctx, "u1", "ch1", 0, "A")
	svc.SubmitAnswer(ctx, "u1", "ch1", 2, "B")

	for i := 0; i < 20; i++ {
		idx, all, err := svc.RandomUnanswered(ctx, "u1", "ch1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if all || idx != 1 {
			t.Fatalf("expected the only unanswered index 1, got %d (all=%v)", idx, all)
		}
	}

	svc.SubmitAnswer(ctx, "u1", "ch1", 1, "A")
	if _, all, _ := svc.RandomUnanswered(ctx, "u1", "ch1"); !all {
		t.Error("expected all questions answered")
	}
}
