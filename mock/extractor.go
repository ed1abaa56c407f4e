package mock

import (
	"context"

	"github.com/koomastudio/postvault"
)

var _ postvault.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of postvault.Extractor.
type Extractor struct {
	ExtractInputFn    func(ctx context.Context, input string) (*postvault.Candidate, error)
	ExtractDocumentFn func(src postvault.DocumentSource) (*postvault.Candidate, error)
}

func (e *Extractor) ExtractInput(ctx context.Context, input string) (*postvault.Candidate, error) {
	return e.ExtractInputFn(ctx, input)
}

func (e *Extractor) ExtractDocument(src postvault.DocumentSource) (*postvault.Candidate, error) {
	return e.ExtractDocumentFn(src)
}
