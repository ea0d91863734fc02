package nlp

import (
	"context"

	"github.com/jdkato/prose/v2"

	"careernav/internal/errors"
)

// ProseTagger tags text locally with the prose averaged perceptron model
type ProseTagger struct{}

var _ Tagger = (*ProseTagger)(nil)

func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

func (p *ProseTagger) Name() string {
	return ProviderProse
}

// Tag tokenizes and tags text. Segmentation and entity extraction are
// disabled since only token tags are used.
func (p *ProseTagger) Tag(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, errors.NewNLPError(errors.ErrCodeTaggerFailed, "Failed to tag text with prose", err)
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		tokens = append(tokens, Token{Text: tok.Text, POS: pennToUniversal(tok.Tag)})
	}
	return tokens, nil
}
