// Package flatten turns a directory tree into a single aggregate text file
// suitable for chunking and embedding.
package flatten

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Separator is the line written before each file block in the aggregate.
const Separator = "----"

// Options configures a flattening run.
type Options struct {
	// Root is the directory tree to flatten.
	Root string
	// Output is the aggregate file, truncated and rewritten on every run.
	Output string
	// Exclude lists file names skipped during traversal, matched by exact
	// base name at any depth.
	Exclude []string
	// RemoveText is a literal string deleted from the aggregate after
	// flattening. Empty means no removal.
	RemoveText string
	// NormalizeWhitespace strips every line of the aggregate after removal.
	// Off by default.
	NormalizeWhitespace bool
}

// Stats summarizes a flattening run.
type Stats struct {
	Files int   // Number of file blocks written
	Bytes int64 // Size of the final aggregate
}

// Flattener writes name/contents blocks for every file under a root.
type Flattener struct {
	exclude map[string]bool
}

// New creates a Flattener that skips the given file names.
func New(exclude []string) *Flattener {
	m := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		m[name] = true
	}
	return &Flattener{exclude: m}
}

// Flatten walks root and writes one block per regular file to w: a separator
// line, the path relative to root, then the file contents followed by a
// newline. Invalid UTF-8 sequences in file contents are dropped rather than
// reported. Traversal errors (missing root, permission failures) abort the
// walk and are returned. Returns the number of blocks written.
//
// Traversal follows filepath.WalkDir, so blocks appear in lexical order.
func (f *Flattener) Flatten(root string, w io.Writer) (int, error) {
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if f.exclude[d.Name()] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := strings.ToValidUTF8(string(data), "")

		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", Separator, rel, content); err != nil {
			return err
		}
		count++
		return nil
	})

	return count, err
}

// Run flattens opts.Root into opts.Output, then applies literal removal and
// the optional whitespace normalization to the aggregate. The output file is
// fully rewritten each time; there is no incremental update.
func Run(opts Options) (*Stats, error) {
	out, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	count, err := New(opts.Exclude).Flatten(opts.Root, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("flattening %s: %w", opts.Root, err)
	}

	if opts.RemoveText != "" || opts.NormalizeWhitespace {
		data, err := os.ReadFile(opts.Output)
		if err != nil {
			return nil, fmt.Errorf("reading aggregate: %w", err)
		}

		doc := RemoveLiteral(string(data), opts.RemoveText)
		if opts.NormalizeWhitespace {
			doc = NormalizeWhitespace(doc)
		}

		if err := os.WriteFile(opts.Output, []byte(doc), 0644); err != nil {
			return nil, fmt.Errorf("rewriting aggregate: %w", err)
		}
	}

	info, err := os.Stat(opts.Output)
	if err != nil {
		return nil, err
	}

	return &Stats{Files: count, Bytes: info.Size()}, nil
}
