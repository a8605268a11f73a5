package questionbank

import (
	"regexp"
	"sort"
	"strings"
)

// Option is one lettered choice of a question.
type Option struct {
	Letter  string `json:"letter"`
	Content string `json:"content"`
}

// Question is a single multiple-choice item as the practice client sees it.
// Answer holds the concatenated correct letters; their order carries no meaning.
type Question struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	IsMulti bool     `json:"is_multi"`
	Options []Option `json:"options"`
	Answer  string   `json:"answer"`
}

// optionMarker matches "A." through "H." at the start of the text or after whitespace.
var optionMarker = regexp.MustCompile(`(^|\s)([A-H])\.`)

// NewQuestion parses raw question text and attaches the expected answer.
func NewQuestion(index int, raw, answer string) Question {
	text, options := ParseQuestion(raw)
	return Question{
		Index:   index,
		Text:    text,
		IsMulti: len(answer) > 1,
		Options: options,
		Answer:  answer,
	}
}

// ParseQuestion splits raw text such as "Pick one A. foo B. bar" into the
// stem and its options. Markers before the first "A." belong to the stem.
// Text without an "A." marker is returned whole with no options.
func ParseQuestion(raw string) (string, []Option) {
	raw = strings.TrimSpace(raw)
	matches := optionMarker.FindAllStringSubmatchIndex(raw, -1)

	first := -1
	for i, m := range matches {
		if raw[m[4]:m[5]] == "A" {
			first = i
			break
		}
	}
	if first < 0 {
		return raw, nil
	}

	matches = matches[first:]
	text := strings.TrimSpace(raw[:matches[0][0]])

	options := make([]Option, 0, len(matches))
	for i, m := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		options = append(options, Option{
			Letter:  raw[m[4]:m[5]],
			Content: strings.TrimSpace(raw[m[1]:end]),
		})
	}
	return text, options
}

// HasLetter reports whether letter is part of the correct answer.
func (q Question) HasLetter(letter string) bool {
	return letter != "" && strings.Contains(q.Answer, letter)
}

// LetterAt returns the letter of the option at the 1-based position.
func (q Question) LetterAt(position int) (string, bool) {
	if position < 1 || position > len(q.Options) {
		return "", false
	}
	return q.Options[position-1].Letter, true
}

// HasOption reports whether the question offers an option with this letter.
func (q Question) HasOption(letter string) bool {
	for _, o := range q.Options {
		if o.Letter == letter {
			return true
		}
	}
	return false
}

// SortLetters sorts the letters of an answer, so "CA" becomes "AC". Case
// and repeats are kept: "AAC" stays distinct from "AC".
func SortLetters(answer string) string {
	letters := strings.Split(answer, "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}
