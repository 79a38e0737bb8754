package assist

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Expert represent a chat with a business expert.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	Logger      *zap.Logger
	chat        *genai.Chat
}

// Start creates the chat session of the expert.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("starting expert %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// Ask is a simple wrapper on top of Chat.Send that resolves function calls
// until the expert answers.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	resp, err := e.chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}
	part0 := resp.Candidates[0].Content.Parts[0]
	if part0.FunctionCall != nil {
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
		}

		// Errors are sent back to the expert in the response.
		resp := e.Library(ctx, part0.FunctionCall)

		return e.Ask(ctx, &genai.Part{FunctionResponse: resp})
	}
	return resp.Candidates[0].Content, nil
}

// Declaration returns the function declaration to ask this expert.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question to ask the expert.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "Expert's response.",
		},
	}
}

// Call perform the call of asking this expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	d := e.Declaration()
	question, ok := args[d.Parameters.Required[0]].(string)
	if !ok {
		return failure(id, d.Name, fmt.Errorf("invalid type got %T, expected string", args[d.Parameters.Required[0]]))
	}

	response, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return failure(id, d.Name, fmt.Errorf("something went wrong while calling the expert: %w", err))
	}

	r := response.Parts[0].Text
	if e.Logger != nil {
		e.Logger.Debug("expert answered", zap.String("expert", e.Name), zap.String("question", question), zap.String("answer", r))
	}
	return success(id, d.Name, r)
}
