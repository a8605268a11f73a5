package grader_test

import (
	"testing"

	"github.com/drillroom/backend/internal/grader"
)

func TestLetterGrader(t *testing.T) {
	cases := []struct {
		expected, given string
		want            bool
	}{
		{"A", "A", true},
		{"A", "B", false},
		{"AC", "CA", true},
		{"AC", "A", false},
		{"AC", "ACD", false},
		{"ABD", "DBA", true},
		{"AC", "AAC", false},
		{"AC", "ac", false},
		{"B", "", false},
	}

	g := grader.LetterGrader{}
	for _, tc := range cases {
		if got := g.Grade(tc.expected, tc.given); got != tc.want {
			t.Errorf("Grade(%q, %q) = %v, want %v", tc.expected, tc.given, got, tc.want)
		}
	}
}
