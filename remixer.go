package postvault

import "context"

// Remixer rewrites saved post content with an AI model. Prompt construction
// and provider invocation live outside this module; the pipeline only needs
// the capability.
type Remixer interface {
	// Remix rewrites content according to the given instructions.
	Remix(ctx context.Context, content, instructions string) (string, error)
}
