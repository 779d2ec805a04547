package protocol

import (
	"bytes"
	_ "embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
)

const actionSchemaURL = "https://treasure-realm/schemas/action.schema.json"

//go:embed schemas/action.schema.json
var actionSchema string

// Validator checks raw inbound frames against the action schema
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded action schema
func NewValidator() (*Validator, error) {
	schema, err := jsonschema.CompileString(actionSchemaURL, actionSchema)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to compile action schema")
	}
	return &Validator{schema: schema}, nil
}

// Decode validates data and decodes it into an InboundAction
func (v *Validator) Decode(data []byte) (*InboundAction, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed action")
	}

	if err := v.schema.Validate(doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "action does not match schema")
	}

	var action InboundAction
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed action")
	}
	return &action, nil
}
