package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/invopop/jsonschema"
)

// ErrInvalidArguments marks arguments that do not decode into a tool's
// argument struct: wrong types, or keys the schema does not declare. The
// dispatcher reports these as an InvalidParams protocol error rather than
// a tool result.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// NewPublicTool builds a tool callable without a token. Only the
// authentication tools qualify.
func NewPublicTool[A any](name, description string, handler func(ctx context.Context, args A) (any, error)) Tool {
	return Tool{
		Descriptor: ehrsdk.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema[A](),
		},
		Handler: typedHandler(handler),
	}
}

// NewProtectedTool builds a tool that requires a validated token holding
// every scope in requiredScopes. The published schema advertises the
// access_token argument even though the dispatcher consumes it before the
// handler runs.
func NewProtectedTool[A any](name, description string, requiredScopes []string, handler func(ctx context.Context, args A) (any, error)) Tool {
	schema := inputSchema[A]()
	schema.Properties["access_token"] = ehrsdk.SchemaProperty{
		Type:        "string",
		Description: "OAuth access token",
	}
	schema.Required = append([]string{"access_token"}, schema.Required...)

	return Tool{
		Descriptor: ehrsdk.Tool{
			Name:           name,
			Description:    description,
			InputSchema:    schema,
			RequiredScopes: requiredScopes,
		},
		RequiresToken: true,
		Handler:       typedHandler(handler),
	}
}

func typedHandler[A any](handler func(ctx context.Context, args A) (any, error)) HandlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args A
		if len(raw) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&args); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}
		}
		return handler(ctx, args)
	}
}

// inputSchema reflects the argument struct into the simplified wire schema.
// Fields without omitempty become required, matching encoding/json's view
// of which fields are optional.
func inputSchema[A any]() ehrsdk.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(new(A))
	if s == nil || s.Type != "object" {
		return ehrsdk.ToolInputSchema{
			Type:       "object",
			Properties: map[string]ehrsdk.SchemaProperty{},
		}
	}

	props := make(map[string]ehrsdk.SchemaProperty)
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = toSchemaProperty(el.Value)
		}
	}

	var required []string
	required = append(required, s.Required...)

	return ehrsdk.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func toSchemaProperty(s *jsonschema.Schema) ehrsdk.SchemaProperty {
	if s == nil {
		return ehrsdk.SchemaProperty{}
	}

	p := ehrsdk.SchemaProperty{
		Type:        s.Type,
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		p.Enum = s.Enum
	}
	if s.Type == "array" && s.Items != nil {
		item := toSchemaProperty(s.Items)
		p.Items = &item
	}
	if s.Type == "object" && s.Properties != nil {
		m := make(map[string]ehrsdk.SchemaProperty, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			m[el.Key] = toSchemaProperty(el.Value)
		}
		p.Properties = m
	}
	return p
}
