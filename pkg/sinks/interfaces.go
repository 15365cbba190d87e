package sinks

import "context"

// Sink delivers script-generated events to a downstream target (SQS, HTTP, etc).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
}
