package enhance

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/scanworks/passport-scanner/internal/docai"
)

// enhancedKeys is the full set of keys an enhanced payload may carry: the
// passport fields plus the address fields the enhancement adds.
var enhancedKeys = []string{
	docai.FieldDocumentID,
	docai.FieldCountry,
	docai.FieldNationality,
	docai.FieldGivenName,
	docai.FieldSurname,
	docai.FieldSex,
	docai.FieldDateOfBirth,
	docai.FieldDateOfExpiry,
	docai.FieldDateOfIssue,
	docai.FieldPlaceOfBirth,
	docai.FieldStreetAddress,
	docai.FieldAddressNumber,
	docai.FieldLocality,
	"profession",
}

// BuildEnhancedJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. The model response is validated against it before anything
// flows deeper than this package.
func BuildEnhancedJSONSchema() map[string]any {
	props := make(map[string]any, len(enhancedKeys))
	for _, k := range enhancedKeys {
		props[k] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
