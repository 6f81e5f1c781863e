package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Structured validates the raw payload a tagstream.Sniffer withheld as
// structured data. Streams opening with '{' or '[' never reach the
// consumer; callers hand the withheld text here once the stream ends to
// check it against a JSON Schema and decode it.
type Structured struct {
	compiled *jsonschema.Schema
}

// CompileStructured compiles a JSON Schema document for payload
// validation. Returns an error if the schema itself is invalid.
func CompileStructured(schemaJSON string) (*Structured, error) {
	data, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("payload.json", data); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("payload.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Structured{compiled: compiled}, nil
}

// MustCompileStructured is like CompileStructured but panics on error.
// Use it for schemas defined at init time.
func MustCompileStructured(schemaJSON string) *Structured {
	s, err := CompileStructured(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode validates raw against the schema and unmarshals it into v.
// Pass a nil v to validate without decoding.
func (s *Structured) Decode(raw string, v any) error {
	payload, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid structured payload: %w", err)
	}
	if err := s.compiled.Validate(payload); err != nil {
		return fmt.Errorf("payload failed schema validation: %w", err)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
