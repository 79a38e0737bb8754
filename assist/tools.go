package assist

import (
	"context"
	"fmt"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/docs"
	"github.com/etnz/tradebook/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Source returns the report of the current records.
type Source func(ctx context.Context) (*tradebook.Report, error)

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user runs a trading business: they buy stock from suppliers, sell it to customers
			and keep a ledger of accounts. They come to you for figures about their stock,
			their margins and what their customers owe.

			Devise a plan of questions to ask to each expert and come up with the best response
			to the user's request. Quote figures as the experts give them.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewStorekeeper returns the expert of the stock positions and their
// valuation.
func NewStorekeeper(source Source) *Expert {
	lib := []Function{positionsTool(source), positionTool(source), topicTool()}
	return &Expert{
		Name: "Storekeeper",
		Description: `This is the Storekeeper. They know the stock of every product: purchased, sold and
		remaining quantities, their value at cost and the profit and margin made on sales.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the storekeeper of a trading business.
				Use the Tools to read the stock positions, the receipts of a product and the documentation
				about how sold quantities and values are computed. Product names may be approximative,
				figure out which product was meant from the list of positions.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// NewBookkeeper returns the expert of the ledger accounts.
func NewBookkeeper(source Source) *Expert {
	lib := []Function{balancesTool(source), topicTool()}
	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. They keep the ledger of accounts and know the running balance
		of every customer and supplier account.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the bookkeeper of a trading business.
				Use the Tools to read the account balances and their entries. Account names may be
				approximative, figure out which account was meant from the list of accounts.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// stringArg returns the string argument name, "" when absent.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return s, nil
}

func positionsTool(source Source) *Func {
	const name = "Positions"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Positions lists the stock position of every product with its valuation and the totals.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the positions.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			report, err := source(ctx)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, renderer.PositionsMarkdown(report.Positions, report.Totals, report.Currency))
		},
	}
}

func positionTool(source Source) *Func {
	const name = "Position"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Position details the stock of one product: its purchase receipts, adjustments and valuation.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"product": {
						Type:        genai.TypeString,
						Description: "The product name, as listed by Positions.",
					},
				},
				Required: []string{"product"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown description of the position.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			product, err := stringArg(args, "product")
			if err != nil {
				return failure(id, name, err)
			}
			report, err := source(ctx)
			if err != nil {
				return failure(id, name, err)
			}
			p, ok := report.Position(product)
			if !ok {
				return failure(id, name, fmt.Errorf("unknown product %q", product))
			}
			return success(id, name, renderer.PositionMarkdown(p, report.Currency))
		},
	}
}

func balancesTool(source Source) *Func {
	const name = "Balances"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Balances lists the account summaries and the running balance of every entry.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the balances.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			report, err := source(ctx)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, renderer.BalancesMarkdown(report.Balances, report.Currency))
		},
	}
}

func topicTool() *Func {
	const name = "Documentation"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Documentation returns a documentation topic: records, precedence, valuation or balances.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic name.",
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown documentation.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, err := stringArg(args, "topic")
			if err != nil {
				return failure(id, name, err)
			}
			content, err := docs.GetTopic(topic)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, content)
		},
	}
}
