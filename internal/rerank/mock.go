package rerank

import (
	"context"
	"strings"
)

// MockReranker scores candidates with a caller-supplied function, or by
// query-word overlap when none is given. Used in tests.
type MockReranker struct {
	ScoreFunc func(query string, texts []string) []float64
	Err       error
}

// Score returns Err if set, the ScoreFunc result if provided, and otherwise
// counts how many query words appear in each candidate.
func (m *MockReranker) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.ScoreFunc != nil {
		return m.ScoreFunc(query, texts), nil
	}
	words := strings.Fields(strings.ToLower(query))
	scores := make([]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		for _, w := range words {
			if strings.Contains(lower, w) {
				scores[i]++
			}
		}
	}
	return scores, nil
}

func (m *MockReranker) Name() string {
	return "mock"
}

func (m *MockReranker) Close() error {
	return nil
}
