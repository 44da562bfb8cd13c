package configfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	schemareflector "github.com/swaggest/jsonschema-go"

	"github.com/3-lines-studio/reactpack/internal/core"
)

const schemaURL = "reactpack-config.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ReflectSchema returns the JSON schema of project configuration files.
func ReflectSchema() ([]byte, error) {
	reflector := schemareflector.Reflector{}

	s, err := reflector.Reflect(core.Config{})
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(s, "", "  ")
}

func rootSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		bs, err := ReflectSchema()
		if err != nil {
			schemaErr = fmt.Errorf("failed to reflect configuration schema: %w", err)
			return
		}

		js, err := jsonschema.UnmarshalJSON(bytes.NewReader(bs))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse configuration schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		compiler.DefaultDraft(jsonschema.Draft2020)
		if err := compiler.AddResource(schemaURL, js); err != nil {
			schemaErr = fmt.Errorf("failed to add configuration schema: %w", err)
			return
		}

		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
