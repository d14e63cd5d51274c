package contract

import "context"

// Handler answers one category of customer request. Absence of data is a
// successful structured result, never an error; a failed dependency is
// reported by wrapping ErrHandlerUnavailable.
type Handler interface {
	Handle(ctx context.Context, req Request) (HandlerOutput, error)
}

// IntentClassifier maps a request to a single intent label. A classifier
// that cannot decide returns IntentAmbiguous, not an error; errors are
// reserved for an unreachable or misbehaving reasoning engine.
type IntentClassifier interface {
	Classify(ctx context.Context, req Request) (Intent, error)
}

// ReasoningEngine is the injected natural-language generation capability.
// Implementations may call an LLM; failures must be surfaced as errors so
// callers can fall back to canned text.
type ReasoningEngine interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
