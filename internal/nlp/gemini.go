package nlp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"careernav/internal/config"
	appErrors "careernav/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const taggerInstruction = `You are a part-of-speech tagger for English resume text.
Split the text into word tokens exactly as they appear and tag each token with a
Universal Dependencies part-of-speech tag (NOUN, PROPN, VERB, ADJ, ADP, NUM, PUNCT, ...).
Return every token in order. Do not add, merge or normalize tokens.`

// contentGenerator is the subset of the genai client used by the tagger
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTagger asks a Gemini model for POS tags through structured output
type GeminiTagger struct {
	models         contentGenerator
	config         *config.NLPConfig
	circuitBreaker *TaggerCircuitBreaker
	logger         *appErrors.Logger
	baseDelay      time.Duration
}

var (
	_ Tagger         = (*GeminiTagger)(nil)
	_ HealthReporter = (*GeminiTagger)(nil)
)

// NewGeminiTagger creates a Gemini backed tagger
func NewGeminiTagger(ctx context.Context, cfg *config.NLPConfig, logger *appErrors.Logger) (*GeminiTagger, error) {
	if cfg.APIKey == "" {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeMissingAPIKey,
			"Gemini tagger requires nlp.apiKey", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewNLPError(appErrors.ErrCodeTaggerFailed,
			"Failed to create Gemini client", err)
	}

	return newGeminiTagger(client.Models, cfg, logger), nil
}

func newGeminiTagger(models contentGenerator, cfg *config.NLPConfig, logger *appErrors.Logger) *GeminiTagger {
	return &GeminiTagger{
		models:         models,
		config:         cfg,
		circuitBreaker: NewTaggerCircuitBreaker(ProviderGemini, &cfg.CircuitBreaker, logger),
		logger:         logger,
		baseDelay:      time.Second,
	}
}

func (g *GeminiTagger) Name() string {
	return ProviderGemini
}

type taggedText struct {
	Tokens []Token `json:"tokens"`
}

// Tag sends text to the model and returns its tokens with universal tags.
func (g *GeminiTagger) Tag(ctx context.Context, text string) ([]Token, error) {
	tracer := otel.Tracer("careernav.nlp.gemini")
	ctx, span := tracer.Start(ctx, "gemini.tag")
	defer span.End()

	span.SetAttributes(
		attribute.String("nlp.provider", ProviderGemini),
		attribute.String("nlp.model", g.config.Model),
		attribute.Int("input.text_length", len(text)),
	)

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	genaiConfig := g.buildTagSchema()
	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.models.GenerateContent(ctx, g.config.Model, genai.Text(text), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		code := appErrors.ErrCodeTaggerFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = appErrors.ErrCodeTaggerTimeout
		}
		return nil, appErrors.NewNLPError(code, "Failed to tag text with Gemini", err)
	}

	var output taggedText
	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, appErrors.NewNLPError(appErrors.ErrCodeTaggerFailed, "Failed to parse Gemini tagger response", err)
	}

	for i := range output.Tokens {
		output.Tokens[i].POS = normalizePOS(output.Tokens[i].POS)
	}

	if usage := result.UsageMetadata; usage != nil {
		span.SetAttributes(
			attribute.Int64("nlp.tokens.input", int64(usage.PromptTokenCount)),
			attribute.Int64("nlp.tokens.total", int64(usage.TotalTokenCount)),
		)
	}
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.token_count", len(output.Tokens)),
	)
	return output.Tokens, nil
}

func (g *GeminiTagger) buildTagSchema() *genai.GenerateContentConfig {
	temperature := g.config.Temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(taggerInstruction, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"tokens": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"text": {Type: genai.TypeString},
							"pos":  {Type: genai.TypeString},
						},
						Required: []string{"text", "pos"},
					},
				},
			},
			Required: []string{"tokens"},
		},
	}
}

// executeWithRetry retries transient failures with exponential backoff and jitter
func (g *GeminiTagger) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying tagger request",
				"attempt", attempt,
				"max_retries", g.config.MaxRetries,
				"error", lastErr.Error())

			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * g.baseDelay
			var jitter time.Duration
			if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
				jitterBig, _ := rand.Int(rand.Reader, big.NewInt(jitterMax))
				jitter = time.Duration(jitterBig.Int64())
			}
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("tagger request failed after %d retries: %w", g.config.MaxRetries, lastErr)
}

// isRetryableError reports whether err is a transient network or server error
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusTooManyRequests || genaiErr.Code >= http.StatusInternalServerError
	}

	return false
}

func (g *GeminiTagger) IsHealthy() bool {
	return g.circuitBreaker.IsHealthy()
}

func (g *GeminiTagger) GetStats() map[string]any {
	return map[string]any{
		"model":           g.config.Model,
		"circuit_breaker": g.circuitBreaker.GetStats(),
	}
}
