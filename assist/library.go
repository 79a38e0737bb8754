package assist

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library resolves the function calls of an expert.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool an expert can call.
type Function interface {
	// Declare this function
	Declaration() *genai.FunctionDeclaration
	// Call this function
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary returns a Library dispatching calls to functions by name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, e := range functions {
			if e.Declaration().Name == call.Name {
				return e.Call(ctx, call.ID, call.Args)
			}
		}
		return failure(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
	}
}

// NewDeclaration returns the declarations of functions.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, e := range functions {
		result = append(result, e.Declaration())
	}
	return result
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}
