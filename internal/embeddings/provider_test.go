package embeddings

import (
	"testing"

	"github.com/jfehrman/repotext/internal/config"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.EmbeddingsConfig
		wantType string
		wantErr  bool
	}{
		{
			name:     "openai provider",
			cfg:      config.EmbeddingsConfig{Provider: "openai", Model: "text-embedding-ada-002"},
			wantType: "*embeddings.OpenAIEmbedder",
		},
		{
			name:     "ollama provider",
			cfg:      config.EmbeddingsConfig{Provider: "ollama", Model: "nomic-embed-text", OllamaURL: "http://localhost:11434"},
			wantType: "*embeddings.OllamaEmbedder",
		},
		{
			name:    "unknown provider",
			cfg:     config.EmbeddingsConfig{Provider: "cohere"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			switch tt.wantType {
			case "*embeddings.OpenAIEmbedder":
				if _, ok := e.(*OpenAIEmbedder); !ok {
					t.Errorf("expected OpenAIEmbedder, got %T", e)
				}
			case "*embeddings.OllamaEmbedder":
				if _, ok := e.(*OllamaEmbedder); !ok {
					t.Errorf("expected OllamaEmbedder, got %T", e)
				}
			}
		})
	}
}

// NewFromConfig must not reject a missing API key; that failure belongs to
// the provider call itself.
func TestNewFromConfigMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	e, err := NewFromConfig(config.EmbeddingsConfig{Provider: "openai", Model: "text-embedding-ada-002"})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if e == nil {
		t.Fatal("expected embedder despite missing key")
	}
}
