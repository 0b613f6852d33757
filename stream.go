package sitesmith

import "context"

// EventStream is a lazy, sequential, non-restartable sequence of decoded
// stream records. Next returns io.EOF when the stream ends normally;
// transport errors surface through Next's error return. Cancellation
// flows through the context passed to Service.Generate.
type EventStream interface {
	Next() (StreamEvent, error)
	Close() error
}

// Service is the remote generation service: a streamed generation call
// and a single-shot update call.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (EventStream, error)
	Update(ctx context.Context, req UpdateRequest) (UpdateResult, error)
}
