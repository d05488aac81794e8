package checkpoint

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema document used to validate a checkpoint
// before it is decoded.
type Schema struct {
	Name       string
	Definition string
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func (s *Schema) validate(data []byte) error {
	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, err := jsonschema.UnmarshalJSON(strings.NewReader(s.Definition))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}

// ReviewSchema describes the review checkpoint holding deck entries.
var ReviewSchema = &Schema{
	Name: "review-checkpoint",
	Definition: `{
  "type": "object",
  "required": ["entries", "current_index"],
  "properties": {
    "current_index": {"type": "integer", "minimum": 0},
    "entries": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["UUID", "question", "response"],
        "properties": {
          "UUID": {"type": "string"},
          "question": {"type": "string"},
          "response": {"type": "string"},
          "media_file": {"type": "string"},
          "creation_date": {"type": "string"}
        }
      }
    }
  }
}`,
}
