package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/opencm/cloudify-common-opencm/dslerr"
)

var (
	compileOnce   sync.Once
	dslCompiled   *jsonschema.Schema
	importsCompiled *jsonschema.Schema
	compileErr    error
)

func compileSchemas() {
	compileOnce.Do(func() {
		dslCompiled, compileErr = compile("dsl.json", DSLSchema())
		if compileErr != nil {
			return
		}
		importsCompiled, compileErr = compile("imports.json", ImportsSchema())
	})
}

func compile(resourceName string, s *Schema) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("schemas: marshal %s: %w", resourceName, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schemas: unmarshal %s: %w", resourceName, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("schemas: add resource %s: %w", resourceName, err)
	}
	compiled, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("schemas: compile %s: %w", resourceName, err)
	}
	return compiled, nil
}

// ValidateDSL runs the full blueprint schema against a combined document,
// raising CodeSchemaValidation (1) on failure with the failing path
// (spec.md §4.6).
func ValidateDSL(doc map[string]any) error {
	compileSchemas()
	if compileErr != nil {
		return fmt.Errorf("schemas: %w", compileErr)
	}
	if err := dslCompiled.Validate(doc); err != nil {
		return dslerr.NewFormat(dslerr.CodeSchemaValidation, "DSL schema validation failed: %s", validationPath(err))
	}
	return nil
}

// ValidateImportsSection runs the imports-only schema against a single
// document, raising CodeImportsSchemaValidation (2) on failure (spec.md
// §4.6).
func ValidateImportsSection(doc map[string]any) error {
	compileSchemas()
	if compileErr != nil {
		return fmt.Errorf("schemas: %w", compileErr)
	}
	if err := importsCompiled.Validate(doc); err != nil {
		return dslerr.NewFormat(dslerr.CodeImportsSchemaValidation, "Imports schema validation failed: %s", validationPath(err))
	}
	return nil
}

// validationPath renders a jsonschema.ValidationError's instance location
// as a dotted path, falling back to the raw error text for any other
// error shape.
func validationPath(err error) string {
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("at %s: %s", strings.Join(verr.InstanceLocation, "."), err)
	}
	return err.Error()
}
