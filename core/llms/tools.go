package llms

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool is a function the model may call. Parameters is the JSON schema of
// the arguments object.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema

	Execute func(arguments string) (string, error)
}

// NewTool builds a tool whose argument schema is derived from the
// handler's parameter struct.
func NewTool[T any](name, description string, handler func(T) (string, error)) Tool {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}

	return Tool{
		Name:        name,
		Description: description,
		Parameters:  reflector.Reflect(new(T)),
		Execute: func(arguments string) (string, error) {
			var parameters T
			if arguments != "" {
				if err := json.Unmarshal([]byte(arguments), &parameters); err != nil {
					return "", fmt.Errorf("failed to parse tool arguments: %w", err)
				}
			}
			return handler(parameters)
		},
	}
}
