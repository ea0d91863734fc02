package analysis

import (
	"context"
	"time"

	"careernav/internal/nlp"
)

// instrumentedTagger reports every tagging call to a Recorder
type instrumentedTagger struct {
	nlp.Tagger
	recorder Recorder
}

func (t *instrumentedTagger) Tag(ctx context.Context, text string) ([]nlp.Token, error) {
	start := time.Now()
	tokens, err := t.Tagger.Tag(ctx, text)
	t.recorder.RecordTaggerCall(ctx, t.Tagger.Name(), time.Since(start), err)
	return tokens, err
}
