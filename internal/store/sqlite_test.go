package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/drillroom/backend/internal/store"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListAnswers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 0, Answer: "A", Correct: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 3, Answer: "BC", Correct: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answers, err := s.ListAnswers(ctx, "u1", "ch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if a := answers[3]; a.Answer != "BC" || a.Correct {
		t.Errorf("unexpected answer %+v", a)
	}
	if answers[0].AnsweredAt.IsZero() {
		t.Error("expected answered_at to be set")
	}
}

func TestSaveAnswer_Overwrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 1, Answer: "A", Correct: false})
	s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 1, Answer: "B", Correct: true})

	answers, _ := s.ListAnswers(ctx, "u1", "ch1")
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(answers))
	}
	if a := answers[1]; a.Answer != "B" || !a.Correct {
		t.Errorf("expected overwritten answer, got %+v", a)
	}
}

func TestResetProject_ScopedToUserAndProject(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 0, Answer: "A", Correct: true})
	s.SaveAnswer(ctx, "u1", "ch2", store.StoredAnswer{QuestionIndex: 0, Answer: "A", Correct: true})
	s.SaveAnswer(ctx, "u2", "ch1", store.StoredAnswer{QuestionIndex: 0, Answer: "A", Correct: true})

	if err := s.ResetProject(ctx, "u1", "ch1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a, _ := s.ListAnswers(ctx, "u1", "ch1"); len(a) != 0 {
		t.Errorf("expected u1/ch1 cleared, got %d answers", len(a))
	}
	if a, _ := s.ListAnswers(ctx, "u1", "ch2"); len(a) != 1 {
		t.Error("expected u1/ch2 untouched")
	}
	if a, _ := s.ListAnswers(ctx, "u2", "ch1"); len(a) != 1 {
		t.Error("expected u2/ch1 untouched")
	}
}

func TestGetProgress(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty, err := s.GetProgress(ctx, "u1", "ch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty != (store.Progress{}) {
		t.Errorf("expected zero progress, got %+v", empty)
	}

	s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 0, Answer: "A", Correct: true})
	s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 1, Answer: "A", Correct: false})
	s.SaveAnswer(ctx, "u1", "ch1", store.StoredAnswer{QuestionIndex: 2, Answer: "C", Correct: true})

	p, _ := s.GetProgress(ctx, "u1", "ch1")
	if p.Answered != 3 || p.Correct != 2 {
		t.Errorf("expected 3 answered / 2 correct, got %+v", p)
	}
}
