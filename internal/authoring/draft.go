// Package authoring implements the workflow for filling in the answers of
// freshly imported entries before they are committed to the record store.
package authoring

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/rappel/internal/checkpoint"
)

// Draft is an entry awaiting its answer.
type Draft struct {
	Question         string `json:"question"`
	OriginalQuestion string `json:"original_question"`
	Response         string `json:"response"`
	StartMs          *int64 `json:"start_time_ms"`
	EndMs            *int64 `json:"end_time_ms"`
	AudioPath        string `json:"audio_path"`
	UUID             string `json:"UUID,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	Attribution      string `json:"attribution,omitempty"`
}

// Missing reports whether the draft still needs an answer.
func (d Draft) Missing() bool {
	return strings.TrimSpace(d.Response) == ""
}

// LoadDrafts reads a JSON array of drafts from path.
func LoadDrafts(path string) ([]Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drafts: %w", err)
	}
	var drafts []Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("decode drafts %s: %w", path, err)
	}
	return drafts, nil
}

// Schema describes the authoring checkpoint file.
var Schema = &checkpoint.Schema{
	Name: "draft-checkpoint",
	Definition: `{
  "type": "object",
  "required": ["entries", "current_index"],
  "properties": {
    "current_index": {"type": "integer", "minimum": 0},
    "entries": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question"],
        "properties": {
          "question": {"type": "string"},
          "original_question": {"type": "string"},
          "response": {"type": "string"},
          "start_time_ms": {"type": ["integer", "null"]},
          "end_time_ms": {"type": ["integer", "null"]},
          "audio_path": {"type": "string"},
          "UUID": {"type": "string"},
          "creation_date": {"type": "string"},
          "attribution": {"type": "string"}
        }
      }
    }
  }
}`,
}
