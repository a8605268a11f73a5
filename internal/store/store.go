package store

import (
	"context"
	"time"
)

// StoredAnswer is one persisted answer of a user for a project question.
type StoredAnswer struct {
	QuestionIndex int
	Answer        string
	Correct       bool
	AnsweredAt    time.Time
}

// Progress summarises a user's answers for one project.
type Progress struct {
	Answered int
	Correct  int
}

// Store persists practice progress per user and project.
type Store interface {
	SaveAnswer(ctx context.Context, userKey, project string, a StoredAnswer) error
	ListAnswers(ctx context.Context, userKey, project string) (map[int]StoredAnswer, error)
	ResetProject(ctx context.Context, userKey, project string) error
	GetProgress(ctx context.Context, userKey, project string) (Progress, error)
}
