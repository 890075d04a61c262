package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/srabonm/tandem-core/core/llms"
	"github.com/srabonm/tandem-core/internal/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type llm struct {
	// client is the configured streaming model implementation.
	client LLMWithStream
	// instructions are the system instructions passed on every call.
	instructions string
	// tools stores the effective tool list exposed to model calls.
	tools []llms.Tool
}

func newLLM() llm {
	return llm{}
}

func (runtime *llm) set(client LLMWithStream) {
	if runtime == nil {
		return
	}

	runtime.client = client
}

func (runtime *llm) setInstructions(instructions string) {
	if runtime == nil {
		return
	}

	runtime.instructions = instructions
}

func (runtime *llm) setTools(tools ...llms.Tool) {
	if runtime == nil {
		return
	}

	runtime.tools = append([]llms.Tool(nil), tools...)
}

func (runtime *llm) appendTools(tools ...llms.Tool) {
	if runtime == nil || len(tools) == 0 {
		return
	}

	runtime.tools = append(runtime.tools, tools...)
}

func (runtime *llm) isConfigured() bool {
	return runtime != nil && runtime.client != nil
}

// generate streams a reply for the prompt, resolving tool calls until the
// model produces a plain response. onChunk receives each content chunk in
// delivery order.
func (runtime *llm) generate(
	ctx context.Context,
	prompt string,
	conversation []llms.Turn,
	onChunk func(string),
) (*llms.Response, error) {
	if !runtime.isConfigured() {
		return nil, fmt.Errorf("no language model configured")
	}

	span := trace.SpanFromContext(ctx)

	turn := llms.Turn{Role: llms.RoleUser, Content: prompt}
	promptPtr := utils.Ptr(prompt)
	turns := conversation
	for {
		stream := runtime.client.PromptWithStream(ctx, promptPtr,
			llms.WithInstructions(runtime.instructions),
			llms.WithTurns(turns...),
			llms.WithTools(runtime.tools...),
		)

		var message strings.Builder
		toolCalls := []llms.ToolCall{}
		for chunk, err := range stream.Chunks(ctx) {
			if err != nil {
				err = fmt.Errorf("failed to stream llm response: %w", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}

			switch chunk := chunk.(type) {
			case llms.StreamContentChunk:
				message.WriteString(chunk.Content())
				if onChunk != nil {
					onChunk(chunk.Content())
				}

			case llms.StreamToolCallChunk:
				toolCalls = append(toolCalls, chunk.ToolCall())
			}
		}

		if len(toolCalls) == 0 {
			return &llms.Response{
				Content:   message.String(),
				ToolCalls: turn.ToolCalls,
			}, nil
		}

		for _, toolCall := range toolCalls {
			response, err := runtime.callTool(ctx, toolCall)
			if err != nil {
				err = fmt.Errorf("failed to call tool: %w", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			toolCall.Response = response
			turn.ToolCalls = append(turn.ToolCalls, toolCall)
		}

		// Re-prompt with the resolved tool calls folded into the history.
		promptPtr = nil
		turns = append(append([]llms.Turn(nil), conversation...), turn)
	}
}

func (runtime *llm) callTool(ctx context.Context, toolCall llms.ToolCall) (string, error) {
	ctx, span := tracer.Start(ctx, "execute tool")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", toolCall.Name))

	for _, tool := range runtime.tools {
		if tool.Name != toolCall.Name {
			continue
		}

		response, err := tool.Execute(toolCall.Arguments)
		if err != nil {
			err = fmt.Errorf("failed to execute tool %q: %w", toolCall.Name, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		logger.InfoContext(ctx, "tool executed", "tool", toolCall.Name)
		return response, nil
	}

	err := fmt.Errorf("tool not found: %s", toolCall.Name)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return "", err
}
