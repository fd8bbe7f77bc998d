//go:build !cgo
// +build !cgo

package rerank

import (
	"context"
	"errors"
)

var errNoCGO = errors.New("onnx cross-encoder requires cgo")

// CrossEncoder is unavailable without CGO.
type CrossEncoder struct{}

// NewCrossEncoder always fails when built without CGO.
func NewCrossEncoder(modelPath string, maxTokens int) (*CrossEncoder, error) {
	return nil, errNoCGO
}

func (ce *CrossEncoder) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	return nil, errNoCGO
}

func (ce *CrossEncoder) Name() string {
	return "cross-encoder:disabled"
}

func (ce *CrossEncoder) Close() error {
	return nil
}
