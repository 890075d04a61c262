package groq

import (
	"testing"

	"github.com/srabonm/tandem-core/core/llms"
)

func TestToMessagesMapsRoles(t *testing.T) {
	messages := toMessages("be brief", []llms.Turn{
		{Role: llms.RoleUser, Content: "hi"},
		{Role: llms.RoleAssistant, Content: "hello"},
	})

	want := []message{
		{Role: messageRoleSystem, Content: "be brief"},
		{Role: messageRoleUser, Content: "hi"},
		{Role: messageRoleAssistant, Content: "hello"},
	}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for i, msg := range messages {
		if msg.Role != want[i].Role || msg.Content != want[i].Content {
			t.Fatalf("expected message %d to be %+v, got %+v", i, want[i], msg)
		}
		if len(msg.ToolCalls) != 0 {
			t.Fatalf("expected no tool calls on message %d, got %+v", i, msg.ToolCalls)
		}
	}
}

func TestToMessagesPutsToolCallsOnAnAssistantMessage(t *testing.T) {
	messages := toMessages("", []llms.Turn{
		{
			Role:    llms.RoleUser,
			Content: "what's the weather?",
			ToolCalls: []llms.ToolCall{
				{ID: "call-1", Name: "weather", Arguments: `{"city":"Berlin"}`, Response: "sunny"},
			},
		},
	})

	if len(messages) != 3 {
		t.Fatalf("expected user, assistant and tool messages, got %d", len(messages))
	}

	if messages[0].Role != messageRoleUser || messages[0].Content != "what's the weather?" {
		t.Fatalf("expected a plain user message first, got %+v", messages[0])
	}
	if len(messages[0].ToolCalls) != 0 {
		t.Fatalf("expected no tool calls on the user message, got %+v", messages[0].ToolCalls)
	}

	if messages[1].Role != messageRoleAssistant {
		t.Fatalf("expected the tool calls on an assistant message, got role %q", messages[1].Role)
	}
	if len(messages[1].ToolCalls) != 1 || messages[1].ToolCalls[0].ID != "call-1" {
		t.Fatalf("expected one tool call with its id, got %+v", messages[1].ToolCalls)
	}
	if messages[1].ToolCalls[0].Function.Name != "weather" {
		t.Fatalf("expected the function name carried over, got %+v", messages[1].ToolCalls[0].Function)
	}

	if messages[2].Role != messageRoleTool || messages[2].ToolCallID != "call-1" {
		t.Fatalf("expected a tool result referencing the call, got %+v", messages[2])
	}
	if messages[2].Content != "sunny" {
		t.Fatalf("expected the tool response as content, got %q", messages[2].Content)
	}
}

func TestToMessagesOrdersResultsAfterEachCallBatch(t *testing.T) {
	messages := toMessages("", []llms.Turn{
		{
			Role:    llms.RoleUser,
			Content: "plan my day",
			ToolCalls: []llms.ToolCall{
				{ID: "call-1", Name: "calendar", Arguments: `{}`, Response: "free"},
				{ID: "call-2", Name: "weather", Arguments: `{}`, Response: "rain"},
			},
		},
		{Role: llms.RoleAssistant, Content: "stay inside"},
	})

	roles := make([]messageRole, 0, len(messages))
	for _, msg := range messages {
		roles = append(roles, msg.Role)
	}
	want := []messageRole{messageRoleUser, messageRoleAssistant, messageRoleTool, messageRoleTool, messageRoleAssistant}
	if len(roles) != len(want) {
		t.Fatalf("expected roles %v, got %v", want, roles)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("expected roles %v, got %v", want, roles)
		}
	}
	if len(messages[1].ToolCalls) != 2 {
		t.Fatalf("expected both calls batched on one assistant message, got %d", len(messages[1].ToolCalls))
	}
}
