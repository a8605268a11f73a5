// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS answers (
    user_key TEXT NOT NULL,
    project TEXT NOT NULL,
    question_index INTEGER NOT NULL,
    answer TEXT NOT NULL,
    correct INTEGER NOT NULL,
    answered_at TEXT NOT NULL,
    PRIMARY KEY (user_key, project, question_index)
);

CREATE INDEX IF NOT EXISTS idx_answers_project ON answers (user_key, project);
`

type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Answers
// ============================================================================

// SaveAnswer stores an answer, overwriting any earlier answer to the same question.
func (s *SQLiteStore) SaveAnswer(ctx context.Context, userKey, project string, a StoredAnswer) error {
	at := a.AnsweredAt
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (user_key, project, question_index, answer, correct, answered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_key, project, question_index) DO UPDATE SET
			answer = excluded.answer,
			correct = excluded.correct,
			answered_at = excluded.answered_at
	`, userKey, project, a.QuestionIndex, a.Answer, a.Correct, at.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) ListAnswers(ctx context.Context, userKey, project string) (map[int]StoredAnswer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT question_index, answer, correct, answered_at FROM answers WHERE user_key = ? AND project = ?",
		userKey, project,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[int]StoredAnswer)
	for rows.Next() {
		var a StoredAnswer
		var at string
		if err := rows.Scan(&a.QuestionIndex, &a.Answer, &a.Correct, &at); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			a.AnsweredAt = t
		}
		answers[a.QuestionIndex] = a
	}
	return answers, rows.Err()
}

// ResetProject deletes every answer of the user for the project.
// Resetting a project without answers is not an error.
func (s *SQLiteStore) ResetProject(ctx context.Context, userKey, project string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM answers WHERE user_key = ? AND project = ?", userKey, project)
	return err
}

func (s *SQLiteStore) GetProgress(ctx context.Context, userKey, project string) (Progress, error) {
	var p Progress
	var correct sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), SUM(correct) FROM answers WHERE user_key = ? AND project = ?",
		userKey, project,
	).Scan(&p.Answered, &correct)
	if err != nil {
		return Progress{}, err
	}
	p.Correct = int(correct.Int64)
	return p, nil
}
