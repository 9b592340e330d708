package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jfehrman/repotext/pkg/chunker"
)

// failingEmbedder fails the test if any embedding is requested.
type failingEmbedder struct {
	t *testing.T
}

func (f *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.t.Error("Embed called during store construction")
	return nil, nil
}

func (f *failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.t.Error("EmbedBatch called during store construction")
	return nil, nil
}

func (f *failingEmbedder) Dimensions() int { return 0 }

func TestNewFailsBeforeAnyEmbedding(t *testing.T) {
	s, err := New("sqlparser-rs", "output.txt", &failingEmbedder{t: t}, chunker.DefaultOptions())
	if err == nil {
		t.Fatal("expected error from New, got nil")
	}
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
	if s != nil {
		t.Errorf("expected nil store on failure, got %v", s)
	}
}
