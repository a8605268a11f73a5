package practicesession

import (
	"fmt"
	"log/slog"

	"github.com/drillroom/backend/internal/domain/questionbank"
)

// Mode selects how questions are presented and navigated.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeRandom     Mode = "random"
	ModeMemorize   Mode = "memorize" // answers revealed, nothing to submit
)

// ParseMode validates a mode name coming from a URL or flag.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	switch m {
	case ModeSequential, ModeRandom, ModeMemorize:
		return true
	}
	return false
}

// DefaultCompactWidth is the viewport width, in terminal columns, at or below
// which navigation closes the answer-card overlay.
const DefaultCompactWidth = 100

// Randomizer picks random question indices. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// Config is the initial payload a session is built from.
type Config struct {
	Project      string
	Mode         Mode
	Questions    []questionbank.Question
	PriorAnswers map[int]AnswerRecord // previously stored answers, keyed by question index
	Total        int                  // display constant; 0 = len(Questions)

	Rand         Randomizer   // nil = time-seeded math/rand
	CompactWidth int          // 0 = DefaultCompactWidth
	Logger       *slog.Logger // nil = slog.Default()
}
