// Package schema loads declarative extraction configs and validates
// structured payloads.
//
// Extraction setups that would otherwise be hardcoded (field order,
// validation level, expected codes) can live in a YAML document next to
// the prompt templates that produce them:
//
//	level: 1
//	stream_fields: [text]
//	fields:
//	  - name: thinking
//	    description: Reasoning, never shown to the user.
//	  - name: text
//	    description: The visible reply.
//	    stream: true
//	    required: true
//	codes:
//	  text: abc123
package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okanwa/tagstream"
)

// ErrNoFields is returned when a config declares no fields.
var ErrNoFields = errors.New("schema: config declares no fields")

// Config is the YAML form of a tagstream.ValidatingConfig.
type Config struct {
	Level          int               `yaml:"level"`
	StreamFields   []string          `yaml:"stream_fields"`
	Fields         []FieldConfig     `yaml:"fields"`
	Codes          map[string]string `yaml:"codes"`
	RetrySeparator string            `yaml:"retry_separator"`
}

// FieldConfig declares one field of the expected output.
type FieldConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Validate    *bool  `yaml:"validate"`
	Stream      bool   `yaml:"stream"`
	Required    bool   `yaml:"required"`
}

// Load parses a YAML config from r and validates its basic shape.
func Load(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Fields) == 0 {
		return nil, ErrNoFields
	}
	if cfg.Level < 0 || cfg.Level > 3 {
		return nil, fmt.Errorf("invalid validation level %d (want 0-3)", cfg.Level)
	}
	for i, f := range cfg.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
	}
	return &cfg, nil
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validating converts the config into a tagstream.ValidatingConfig.
// Callbacks, cancellation context, and the rich-consumer flag are
// attached by the caller.
func (c *Config) Validating() tagstream.ValidatingConfig {
	fields := make([]tagstream.Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		fields = append(fields, tagstream.Field{
			Name:        f.Name,
			Description: f.Description,
			Validate:    f.Validate,
			Stream:      f.Stream,
			Required:    f.Required,
		})
	}

	return tagstream.ValidatingConfig{
		Level:          tagstream.ValidationLevel(c.Level),
		Fields:         fields,
		StreamFields:   c.StreamFields,
		Codes:          c.Codes,
		RetrySeparator: c.RetrySeparator,
	}
}
