//go:build cgo
// +build cgo

package rerank

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/hyperjump/kotae/internal/embedding"
)

// CrossEncoder runs a single-logit relevance model (ms-marco MiniLM style)
// through ONNX Runtime. Query and passage are tokenized as one paired input;
// the output logit is the relevance score. Requires CGO and the onnxruntime
// shared library.
type CrossEncoder struct {
	session   *ort.AdvancedSession
	modelPath string
	maxTokens int
	tokenizer embedding.Tokenizer

	// Pre-allocated tensors for Run(); input data is overwritten per call.
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewCrossEncoder creates a cross-encoder from the model at modelPath.
// InitializeEnvironment is called if not already done.
func NewCrossEncoder(modelPath string, maxTokens int) (*CrossEncoder, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	tokenizer := &embedding.SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tokenizer.TokenizePair("", "", maxTokens)

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor(ort.NewShape(1, 1), make([]float32, 1))
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		[]ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &CrossEncoder{
		session:             session,
		modelPath:           modelPath,
		maxTokens:           maxTokens,
		tokenizer:           tokenizer,
		inputIDsTensor:      inputIDsTensor,
		attentionMaskTensor: attentionMaskTensor,
		tokenTypeIDsTensor:  tokenTypeIDsTensor,
		outputTensor:        outputTensor,
	}, nil
}

// Score scores each text against the query, one inference per pair.
func (ce *CrossEncoder) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		s, err := ce.score(query, text)
		if err != nil {
			return nil, fmt.Errorf("score pair %d: %w", i, err)
		}
		scores[i] = s
	}
	return scores, nil
}

func (ce *CrossEncoder) score(query, text string) (float64, error) {
	ce.mu.Lock()
	defer ce.mu.Unlock()

	inputIDs, attentionMask, tokenTypeIDs := ce.tokenizer.TokenizePair(query, text, ce.maxTokens)
	copy(ce.inputIDsTensor.GetData(), inputIDs)
	copy(ce.attentionMaskTensor.GetData(), attentionMask)
	copy(ce.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := ce.session.Run(); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}
	return float64(ce.outputTensor.GetData()[0]), nil
}

// Name identifies the model for status reporting.
func (ce *CrossEncoder) Name() string {
	return "cross-encoder:" + ce.modelPath
}

// Close destroys the session and tensors.
func (ce *CrossEncoder) Close() error {
	var err error
	if ce.session != nil {
		err = ce.session.Destroy()
		ce.session = nil
	}
	if ce.inputIDsTensor != nil {
		_ = ce.inputIDsTensor.Destroy()
		ce.inputIDsTensor = nil
	}
	if ce.attentionMaskTensor != nil {
		_ = ce.attentionMaskTensor.Destroy()
		ce.attentionMaskTensor = nil
	}
	if ce.tokenTypeIDsTensor != nil {
		_ = ce.tokenTypeIDsTensor.Destroy()
		ce.tokenTypeIDsTensor = nil
	}
	if ce.outputTensor != nil {
		_ = ce.outputTensor.Destroy()
		ce.outputTensor = nil
	}
	return err
}
