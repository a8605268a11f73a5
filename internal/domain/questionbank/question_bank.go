package questionbank

import "errors"

// RawQuestion is one entry of a project file: {"Q": "...", "A": "AB"}.
type RawQuestion struct {
	Q string `json:"Q"`
	A string `json:"A"`
}

// Bank is a practice project: one question file, optionally inside a folder.
// Its ID is the folder name followed by the file stem, or just the stem for
// files at the top of the data directory.
type Bank struct {
	ID          string
	DisplayName string
	Folder      string // empty for standalone banks
	File        string
	Questions   []Question
}

// New creates a bank from the raw entries of a project file.
func New(id, displayName, folder, file string, raw []RawQuestion) (*Bank, error) {
	if id == "" {
		return nil, errors.New("bank id cannot be empty")
	}

	bank := &Bank{
		ID:          id,
		DisplayName: displayName,
		Folder:      folder,
		File:        file,
		Questions:   make([]Question, 0, len(raw)),
	}
	for _, r := range raw {
		bank.AddQuestion(r.Q, r.A)
	}
	return bank, nil
}

// AddQuestion appends a parsed question at the next index.
func (b *Bank) AddQuestion(raw, answer string) {
	b.Questions = append(b.Questions, NewQuestion(len(b.Questions), raw, answer))
}

// Question returns the question at index.
func (b *Bank) Question(index int) (Question, bool) {
	if index < 0 || index >= len(b.Questions) {
		return Question{}, false
	}
	return b.Questions[index], true
}

// Total is the number of questions in the bank.
func (b *Bank) Total() int {
	return len(b.Questions)
}
