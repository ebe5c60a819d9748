package queue

import "context"

// Job consumes one message type off the queue.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload. Decode it with ParsePayload.
	Handle(ctx context.Context, payload interface{}) error
}
