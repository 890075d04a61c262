package llms

type PromptOptions struct {
	Instructions string
	Turns        []Turn
	Tools        []Tool
}

type PromptOption func(*PromptOptions)

// WithInstructions sets the system instructions for the call.
func WithInstructions(instructions string) PromptOption {
	return func(o *PromptOptions) { o.Instructions = instructions }
}

// WithTurns sets the prior conversation turns for the call.
func WithTurns(turns ...Turn) PromptOption {
	return func(o *PromptOptions) { o.Turns = turns }
}

// WithTools sets the tools the model may call.
func WithTools(tools ...Tool) PromptOption {
	return func(o *PromptOptions) { o.Tools = tools }
}
