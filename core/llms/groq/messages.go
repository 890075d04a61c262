package groq

import (
	"github.com/invopop/jsonschema"
	"github.com/srabonm/tandem-core/core/llms"
)

type message struct {
	Role       messageRole `json:"role"`
	Content    string      `json:"content"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolCalls  []toolCall  `json:"tool_calls,omitempty"`
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
	messageRoleTool      messageRole = "tool"
)

type toolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function toolCallFunction `json:"function"`
}

type toolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

func toMessages(instructions string, turns []llms.Turn) []message {
	messages := []message{}
	if instructions != "" {
		messages = append(messages, message{
			Role:    messageRoleSystem,
			Content: instructions,
		})
	}

	for _, turn := range turns {
		if turn.Content != "" {
			switch turn.Role {
			case llms.RoleUser:
				messages = append(messages, message{Role: messageRoleUser, Content: turn.Content})
			case llms.RoleAssistant:
				messages = append(messages, message{Role: messageRoleAssistant, Content: turn.Content})
			}
		}

		if len(turn.ToolCalls) == 0 {
			continue
		}

		// The completions contract wants tool calls on an assistant
		// message, with each result in a tool message after it.
		msg := message{Role: messageRoleAssistant}
		responseMsgs := []message{}
		for _, tCall := range turn.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, toolCall{
				ID:   tCall.ID,
				Type: "function",
				Function: toolCallFunction{
					Name:      tCall.Name,
					Arguments: tCall.Arguments,
				},
			})
			if tCall.Response != "" {
				responseMsgs = append(responseMsgs, message{
					Role:       messageRoleTool,
					Content:    tCall.Response,
					ToolCallID: tCall.ID,
				})
			}
		}

		messages = append(messages, msg)
		messages = append(messages, responseMsgs...)
	}
	return messages
}

func toTools(tools []llms.Tool) []tool {
	if len(tools) == 0 {
		return nil
	}

	converted := make([]tool, 0, len(tools))
	for _, t := range tools {
		converted = append(converted, tool{
			Type: "function",
			Function: toolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return converted
}
