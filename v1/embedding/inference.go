package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
)

// InferenceProvider computes embeddings through an OpenAI-compatible
// /embeddings endpoint. Failed requests are retried with back-off.
type InferenceProvider struct {
	client openai.Client
	cfg    *Config
	logger logger.Logger
}

// NewInferenceProvider builds a provider from cfg.
func NewInferenceProvider(cfg *Config, log logger.Logger) *InferenceProvider {
	if log == nil {
		log = logger.NewNop()
	}
	opts := []option.RequestOption{
		// retries are handled by retry-go so they can be logged
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}

	return &InferenceProvider{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		logger: log,
	}
}

func (p *InferenceProvider) Dimension() int { return p.cfg.Dimension }

// Embed sends texts in a single request. Callers split large inputs
// into batches; see Client.
func (p *InferenceProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: p.cfg.Model,
	}
	if p.cfg.RequestDimensions {
		params.Dimensions = openai.Int(int64(p.cfg.Dimension))
	}

	var resp *openai.CreateEmbeddingResponse
	err := retry.Do(
		func() error {
			r, err := p.client.Embeddings.New(ctx, params)
			if err != nil {
				if !retryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			resp = r
			return nil
		},
		retry.Attempts(max(p.cfg.RetryAttempts, 1)),
		retry.Delay(p.cfg.RetryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.WarnWithContext(ctx, "Retrying embedding request", err, map[string]interface{}{
				"attempt": n + 1,
				"model":   p.cfg.Model,
				"texts":   len(texts),
			})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding: request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("embedding: response index %d out of range", d.Index)
		}
		if len(d.Embedding) != p.cfg.Dimension {
			return nil, fmt.Errorf("embedding: model %s returned %d dimensions, expected %d",
				p.cfg.Model, len(d.Embedding), p.cfg.Dimension)
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	return out, nil
}

// retryable reports whether a failed request may succeed when repeated.
// Client errors other than rate limiting are final.
func retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
