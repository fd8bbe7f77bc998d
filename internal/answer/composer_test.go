package answer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type scriptedGenerator struct {
	answer string
	err    error
	prompt string
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

func (s *scriptedGenerator) Name() string { return "scripted" }
func (s *scriptedGenerator) Close() error { return nil }

func TestBuildPrompt(t *testing.T) {
	c := NewComposer(&scriptedGenerator{}, zap.NewNop())
	got := c.BuildPrompt("why is the sky blue?", []string{"first chunk", "second chunk"})
	want := "Context: first chunk\n\n---\n\nsecond chunk\n\nQuestion: why is the sky blue?\n\nAnswer in a clear and concise way."
	if got != want {
		t.Errorf("prompt mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestBuildPrompt_singleChunk(t *testing.T) {
	c := NewComposer(&scriptedGenerator{}, zap.NewNop())
	got := c.BuildPrompt("q", []string{"only"})
	want := "Context: only\n\nQuestion: q\n\nAnswer in a clear and concise way."
	if got != want {
		t.Errorf("prompt mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestCompose(t *testing.T) {
	gen := &scriptedGenerator{answer: "blue because of scattering"}
	c := NewComposer(gen, zap.NewNop())

	got, err := c.Compose(context.Background(), "why is the sky blue?", []string{"rayleigh scattering"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "blue because of scattering" {
		t.Errorf("answer = %q", got)
	}
	if gen.prompt != c.BuildPrompt("why is the sky blue?", []string{"rayleigh scattering"}) {
		t.Errorf("generator received unexpected prompt: %q", gen.prompt)
	}
}

func TestCompose_unavailablePropagates(t *testing.T) {
	c := NewComposer(NewUnavailable("nothing configured"), zap.NewNop())
	_, err := c.Compose(context.Background(), "q", []string{"ctx"})
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}
}
