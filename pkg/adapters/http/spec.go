package http

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading embedded OpenAPI document: %w", err)
	}
	return doc, nil
})

// GetSwagger returns the embedded OpenAPI document, parsed once.
func GetSwagger() (*openapi3.T, error) {
	return loadSpec()
}

// validateSchema checks a decoded JSON value against a component schema.
func validateSchema(name string, value any) error {
	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %q not found in OpenAPI document", name)
	}
	return ref.Value.VisitJSON(value)
}
