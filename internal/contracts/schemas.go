package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"listing-service/internal/core/domain"
	"listing-service/schemas"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaBaseURL - абсолютная база для ресурсов, иначе компилятор резолвит пути от рабочей директории.
const schemaBaseURL = "https://listing-service.local/schemas/"

const (
	PropertyCreateV1 = "PropertyCreateRequest/1.0.0"
	PropertyUpdateV1 = "PropertyUpdateRequest/1.0.0"
)

var schemaFiles = map[string]string{
	PropertyCreateV1: "listings/property-create-v1.json",
	PropertyUpdateV1: "listings/property-update-v1.json",
}

// Validator хранит скомпилированные схемы тел запросов.
type Validator struct {
	compiled map[string]*jsonschema.Schema
}

// NewValidator компилирует все схемы из встроенной файловой системы.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	compiler.AssertFormat = true

	// Ресурсы регистрируются под общей базой, чтобы относительные $ref разрешались.
	err := fs.WalkDir(schemas.FS, "listings", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".json" {
			return err
		}
		data, err := schemas.FS.ReadFile(p)
		if err != nil {
			return err
		}
		return compiler.AddResource(schemaBaseURL+p, bytes.NewReader(data))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}

	v := &Validator{compiled: make(map[string]*jsonschema.Schema, len(schemaFiles))}
	for key, file := range schemaFiles {
		schema, err := compiler.Compile(schemaBaseURL + file)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", file, err)
		}
		v.compiled[key] = schema
	}
	return v, nil
}

// Validate проверяет тело запроса по схеме. Ошибки оборачивают domain.ErrInvalidPayload.
func (v *Validator) Validate(contract string, body []byte) error {
	schema, ok := v.compiled[contract]
	if !ok {
		return fmt.Errorf("schema for contract '%s' not found", contract)
	}

	// распарсить JSON в универсальный тип interface{}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: request body is not a valid JSON: %v", domain.ErrInvalidPayload, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, describe(err))
	}
	return nil
}

// describe возвращает самую глубокую причину ошибки валидации, она понятнее клиенту.
func describe(err error) string {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	loc := verr.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, verr.Message)
}
