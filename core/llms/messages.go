package llms

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is a single prior exchange passed back to the model for context.
type Turn struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall
}

// Response is a single finished response from the model.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolCall is a model-requested tool invocation and, once executed, its
// result.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	Response  string
}
