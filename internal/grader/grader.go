package grader

import "github.com/drillroom/backend/internal/domain/questionbank"

// Grader decides whether a submitted answer matches the expected one.
// Implementations may be exact, lenient, or canned (for tests).
type Grader interface {
	// Grade reports whether given is correct for expected.
	Grade(expected, given string) bool
}

// LetterGrader compares answers ignoring letter order only, so "CA" is
// correct for "AC" while "AAC" and "ac" are not.
type LetterGrader struct{}

// Compile-time check: LetterGrader satisfies the Grader interface.
var _ Grader = LetterGrader{}

func (LetterGrader) Grade(expected, given string) bool {
	return questionbank.SortLetters(expected) == questionbank.SortLetters(given)
}
