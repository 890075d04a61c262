package llms

import "context"

// Stream is a chunked model reply. Chunks yields chunks in delivery order;
// no other ordering guarantee exists. A raised error terminates the
// stream.
type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	FinishReason() *string
}

type StreamContentChunk interface {
	StreamChunk
	Content() string
}

type StreamToolCallChunk interface {
	StreamChunk
	ToolCall() ToolCall
}
