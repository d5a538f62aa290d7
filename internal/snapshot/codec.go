// Package snapshot encodes and decodes the interchange format shared by the
// blob store and the import/export boundary.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jaekwang-park/todo-tracker/internal/model"
)

// ErrMalformed is wrapped by every Decode failure caused by the payload.
var ErrMalformed = errors.New("malformed snapshot")

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add snapshot schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Encode renders snap as indented JSON. Timestamps use RFC 3339 and statuses
// their wire tokens.
func Encode(snap model.Snapshot) ([]byte, error) {
	if snap.Todos == nil {
		snap.Todos = []model.Todo{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates data. The result is either a complete snapshot
// or an error; nothing is partially decoded.
func Decode(data []byte) (model.Snapshot, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to compile snapshot schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrMalformed, describeValidationError(err))
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	seen := make(map[string]struct{}, len(snap.Todos))
	for _, t := range snap.Todos {
		if _, dup := seen[t.ID]; dup {
			return model.Snapshot{}, fmt.Errorf("%w: duplicate todo id %s", ErrMalformed, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	if snap.Todos == nil {
		snap.Todos = []model.Todo{}
	}

	return snap, nil
}

// describeValidationError flattens a schema error into its leaf causes.
func describeValidationError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}
