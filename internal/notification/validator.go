package notification

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed message-schema.json
var embeddedSchema []byte

const schemaURL = "https://wisbridge.local/message.schema.json"

// Validator checks raw notification payloads against the message
// grammar and produces the typed Message downstream stages consume.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded message schema.
func NewValidator() (*Validator, error) {
	return newValidator(embeddedSchema)
}

// NewValidatorFromFile compiles a schema document from disk, for
// deployments that override the built-in grammar.
func NewValidatorFromFile(path string) (*Validator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message schema: %w", err)
	}
	return newValidator(raw)
}

func newValidator(raw []byte) (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("message schema load failed: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("message schema compile failed: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate parses and structurally checks a raw payload. It is the only
// constructor of Message values: a payload that does not conform to the
// grammar never reaches the rest of the pipeline.
func (v *Validator) Validate(raw []byte) (*Message, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	if err := v.schema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("notification schema: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &msg, nil
}
