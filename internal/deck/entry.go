// Package deck defines the flashcard entry and how its question template
// breaks down into blanks.
package deck

import (
	"encoding/json"
	"strings"
)

// Marker denotes one blank in a question template.
const Marker = "(?)"

// Placeholder is shown for a blank with no value.
const Placeholder = "______"

// Separator joins sub-questions and answers in storage.
const Separator = ";"

// Entry is one flashcard.
type Entry struct {
	ID        string
	Question  string
	Answers   []string
	MediaPath string
	// CreatedAt is a calendar date, YYYY-MM-DD.
	CreatedAt string
}

// entryJSON is the on-disk shape shared with the record table.
type entryJSON struct {
	UUID         string `json:"UUID"`
	Question     string `json:"question"`
	Response     string `json:"response"`
	MediaFile    string `json:"media_file"`
	CreationDate string `json:"creation_date"`
}

// MarshalJSON encodes the entry with answers joined into a single response.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		UUID:         e.ID,
		Question:     e.Question,
		Response:     JoinAnswers(e.Answers),
		MediaFile:    e.MediaPath,
		CreationDate: e.CreatedAt,
	})
}

// UnmarshalJSON decodes the on-disk shape.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry{
		ID:        raw.UUID,
		Question:  raw.Question,
		Answers:   SplitAnswers(raw.Response),
		MediaPath: raw.MediaFile,
		CreatedAt: raw.CreationDate,
	}
	return nil
}

// SplitAnswers splits a stored response into trimmed, non-empty answers.
func SplitAnswers(s string) []string {
	return splitNonEmpty(s)
}

// JoinAnswers is the inverse of SplitAnswers for answers without separators.
func JoinAnswers(answers []string) string {
	return strings.Join(answers, Separator)
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, Separator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
