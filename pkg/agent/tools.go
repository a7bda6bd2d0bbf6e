package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// FunctionTool is a caller-registered capability the model can invoke
// through a function call. Arguments arrive as the JSON object the model
// produced, already validated against the tool's schema.
type FunctionTool interface {
	// Name returns the unique identifier the model calls the tool by.
	Name() string

	// Description tells the model what the tool does.
	Description() string

	// Schema returns the JSON schema object for the tool's arguments.
	Schema() map[string]interface{}

	// Execute runs the tool and returns a result string for the
	// transcript.
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// parseArguments decodes the model-supplied argument JSON. An empty
// string means no arguments.
func parseArguments(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}

// validateArguments checks model-supplied arguments against a tool's
// JSON schema before invocation. Model output is an injection surface,
// so arguments are never trusted verbatim: required fields must be
// present, declared properties must match their primitive type, and
// undeclared fields are rejected when the schema says
// additionalProperties is false.
func validateArguments(schema map[string]interface{}, args map[string]interface{}) error {
	if schema == nil {
		return nil
	}

	properties, _ := schema["properties"].(map[string]interface{})

	if required, ok := schema["required"].([]string); ok {
		for _, name := range required {
			if _, present := args[name]; !present {
				return fmt.Errorf("missing required argument %q", name)
			}
		}
	} else if required, ok := schema["required"].([]interface{}); ok {
		for _, entry := range required {
			name, _ := entry.(string)
			if _, present := args[name]; name != "" && !present {
				return fmt.Errorf("missing required argument %q", name)
			}
		}
	}

	if additional, ok := schema["additionalProperties"].(bool); ok && !additional {
		for name := range args {
			if _, declared := properties[name]; !declared {
				return fmt.Errorf("unexpected argument %q", name)
			}
		}
	}

	for name, value := range args {
		propSchema, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		wantType, _ := propSchema["type"].(string)
		if wantType == "" {
			continue
		}
		if err := checkType(name, wantType, value); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name, wantType string, value interface{}) error {
	ok := false
	switch wantType {
	case "string":
		_, ok = value.(string)
	case "number":
		_, ok = value.(float64)
	case "integer":
		f, isNum := value.(float64)
		ok = isNum && f == float64(int64(f))
	case "boolean":
		_, ok = value.(bool)
	case "array":
		_, ok = value.([]interface{})
	case "object":
		_, ok = value.(map[string]interface{})
	case "null":
		ok = value == nil
	default:
		// Unknown schema type: let the tool decide.
		ok = true
	}
	if !ok {
		return fmt.Errorf("argument %q must be of type %s", name, wantType)
	}
	return nil
}
