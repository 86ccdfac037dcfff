package events

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var schemas = compileSchemas()

func compileSchemas() map[Kind]*jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	out := make(map[Kind]*jsonschema.Schema)
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		panic(fmt.Sprintf("reading embedded schemas: %v", err))
	}
	for _, entry := range entries {
		name := entry.Name()
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			panic(fmt.Sprintf("reading embedded schema %s: %v", name, err))
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			panic(fmt.Sprintf("adding schema %s: %v", name, err))
		}
		schema, err := compiler.Compile(name)
		if err != nil {
			panic(fmt.Sprintf("compiling schema %s: %v", name, err))
		}

		kind := Kind(strings.ToUpper(strings.TrimSuffix(name, ".json")))
		out[kind] = schema
	}
	return out
}

// Validate checks a raw payload against the schema for its kind.
func Validate(kind Kind, data []byte) error {
	schema, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON in %s payload: %w", kind, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid %s payload: %w", kind, err)
	}
	return nil
}
