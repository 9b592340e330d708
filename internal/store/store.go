// Package store is the attachment point for pushing chunk embeddings into a
// vector database. No backend is wired up yet; construction fails with
// ErrNotImplemented until one exists.
package store

import (
	"errors"
	"fmt"

	"github.com/jfehrman/repotext/internal/embeddings"
	"github.com/jfehrman/repotext/pkg/chunker"
)

// ErrNotImplemented is returned while the vector store has no backend.
var ErrNotImplemented = errors.New("vector store backend is not implemented")

// Store composes the chunker and an embedder in front of a vector database.
type Store struct {
	name      string
	docsPath  string
	embedder  embeddings.Embedder
	chunkOpts chunker.Options
}

// New creates a Store for the named vector database, fed from the aggregate
// document at docsPath. It initializes the backing database as part of
// construction, which currently always fails with ErrNotImplemented — before
// any chunking or embedding happens.
func New(name, docsPath string, embedder embeddings.Embedder, chunkOpts chunker.Options) (*Store, error) {
	s := &Store{
		name:      name,
		docsPath:  docsPath,
		embedder:  embedder,
		chunkOpts: chunkOpts,
	}

	if err := s.initializeDB(); err != nil {
		return nil, fmt.Errorf("initializing vector store %q: %w", name, err)
	}

	return s, nil
}

// initializeDB provisions the backing vector database.
func (s *Store) initializeDB() error {
	return ErrNotImplemented
}
