package embeddings

import (
	"fmt"
	"os"

	"github.com/jfehrman/repotext/internal/config"
)

// NewFromConfig builds the configured embedding provider. The OpenAI API key
// comes from config or the OPENAI_API_KEY environment variable; its absence
// is not validated here and only surfaces when a call is made.
func NewFromConfig(cfg config.EmbeddingsConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		key := cfg.OpenAIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		return NewOpenAIEmbedder(key, cfg.Model, cfg.OpenAIBaseURL), nil

	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.Model), nil

	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
	}
}
