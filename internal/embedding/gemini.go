package embedding

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiEmbedder produces embeddings through the Gemini embedding API.
// Each text is embedded with its own API call (no batching across the API
// boundary); repeated texts are served from an LRU cache instead.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	cache  *Cache

	mu   sync.Mutex
	dims int // learned from the first response; 0 until then
}

// NewGeminiEmbedder creates a remote embedder using the given API key and model
// (e.g. "models/embedding-001").
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, cacheSize int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiEmbedder{
		client: client,
		model:  model,
		cache:  NewCache(cacheSize),
	}, nil
}

// Embed returns the embedding for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}, Role: "user"},
	}
	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed: empty embedding for model %s", e.model)
	}

	values := make([]float32, len(resp.Embeddings[0].Values))
	copy(values, resp.Embeddings[0].Values)

	e.mu.Lock()
	if e.dims == 0 {
		e.dims = len(values)
	}
	e.mu.Unlock()

	e.cache.Set(text, values)
	return values, nil
}

// EmbedBatch embeds each text with its own API call, preserving input order.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d of %d: %w", i+1, len(texts), err)
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension observed on the first successful
// call, or 0 before any embedding has been produced.
func (e *GeminiEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

// Name identifies the backend for status reporting.
func (e *GeminiEmbedder) Name() string {
	return "gemini:" + e.model
}

// Close is a no-op; the genai client holds no connection state requiring shutdown.
func (e *GeminiEmbedder) Close() error {
	return nil
}
