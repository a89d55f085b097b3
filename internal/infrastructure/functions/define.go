package functions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// Function is one entry of an executor's catalog.
type Function struct {
	descriptor tool.Descriptor
	invoke     func(ctx context.Context, validate *validator.Validate, s *Session, args map[string]any) (any, error)
}

// Descriptor returns the model-facing description.
func (f Function) Descriptor() tool.Descriptor {
	return f.descriptor
}

// Define declares a function whose arguments decode into A. The parameter
// schema is reflected from A: fields without omitempty are required, and
// jsonschema / jsonschema_description tags refine it.
func Define[A any](name, description string, run func(ctx context.Context, s *Session, args A) (any, error)) Function {
	return Function{
		descriptor: tool.Descriptor{
			Name:        name,
			Description: description,
			Parameters:  parametersOf[A](),
		},
		invoke: func(ctx context.Context, validate *validator.Validate, s *Session, raw map[string]any) (any, error) {
			var args A
			if err := decodeArguments(raw, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
			}
			if err := validate.Struct(args); err != nil {
				return nil, fmt.Errorf("invalid arguments for %s: %s", name, describeValidation(err))
			}
			return run(ctx, s, args)
		},
	}
}

func parametersOf[A any]() map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	schema := reflector.Reflect(new(A))

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("reflect parameters: %v", err))
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		panic(fmt.Sprintf("reflect parameters: %v", err))
	}

	delete(params, "$schema")
	delete(params, "$id")
	params["type"] = "object"
	if _, ok := params["properties"]; !ok {
		params["properties"] = map[string]any{}
	}
	return params
}

func decodeArguments(raw map[string]any, out any) error {
	if raw == nil {
		raw = map[string]any{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("field %s must be %s", typeErr.Field, typeErr.Type)
		}
		return err
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "min", "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
