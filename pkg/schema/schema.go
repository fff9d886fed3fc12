// Package schema validates request bodies against embedded JSON Schemas.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names.
const (
	Property       = "property"
	PropertyUpdate = "property_update"
	Enquiry        = "enquiry"
	Newsletter     = "newsletter"
)

type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema. Schemas may reference each other by
// file name.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	paths, err := fs.Glob(schemaFS, "schemas/*.json")
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		data, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(strings.TrimPrefix(path, "schemas/"), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", path, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
		compiled, err := compiler.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", path, err)
		}
		v.schemas[name] = compiled
	}
	return v, nil
}

// Validate checks body against the named schema.
func (v *Validator) Validate(name string, body []byte) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("body is not valid JSON: trailing data")
	}
	return s.Validate(doc)
}

// Details flattens a validation error into "location: message" lines. Other
// errors are returned as a single line.
func Details(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var out []string
	for _, e := range ve.BasicOutput().Errors {
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, loc+": "+e.Error)
	}
	if len(out) == 0 {
		out = append(out, ve.Error())
	}
	return out
}
