// Package nlp provides part-of-speech taggers used to augment catalog based
// skill detection.
package nlp

import (
	"context"
	"fmt"
	"strings"

	"careernav/internal/config"
	"careernav/internal/errors"
)

// Universal part-of-speech tags produced by every tagger
const (
	POSNoun       = "NOUN"
	POSProperNoun = "PROPN"
	POSOther      = "X"
)

// Provider names accepted in configuration
const (
	ProviderNone   = "none"
	ProviderProse  = "prose"
	ProviderGemini = "gemini"
)

// Token is a single tagged token from the input text
type Token struct {
	Text string `json:"text"`
	POS  string `json:"pos"`
}

// IsNoun reports whether the token is a common or proper noun
func (t Token) IsNoun() bool {
	return t.POS == POSNoun || t.POS == POSProperNoun
}

// Tagger tags raw text with universal part-of-speech tags
type Tagger interface {
	Name() string
	Tag(ctx context.Context, text string) ([]Token, error)
}

// HealthReporter is implemented by taggers that depend on a remote service
type HealthReporter interface {
	IsHealthy() bool
	GetStats() map[string]any
}

// New builds the tagger selected by cfg.Provider. The "none" provider returns
// a nil Tagger, which callers treat as catalog-only detection.
func New(ctx context.Context, cfg *config.NLPConfig, logger *errors.Logger) (Tagger, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderNone:
		return nil, nil
	case ProviderProse:
		return NewProseTagger(), nil
	case ProviderGemini:
		return NewGeminiTagger(ctx, cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported nlp provider: %s", cfg.Provider), nil)
	}
}

// TaggerName returns a printable name for t, including the nil tagger.
func TaggerName(t Tagger) string {
	if t == nil {
		return ProviderNone
	}
	return t.Name()
}

// pennToUniversal maps Penn Treebank noun tags onto the universal tag set.
func pennToUniversal(tag string) string {
	switch tag {
	case "NN", "NNS":
		return POSNoun
	case "NNP", "NNPS":
		return POSProperNoun
	default:
		return POSOther
	}
}

// normalizePOS accepts universal or Penn tags from remote taggers.
func normalizePOS(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	switch tag {
	case POSNoun, POSProperNoun:
		return tag
	default:
		return pennToUniversal(tag)
	}
}
