// Package chunker splits documents into fixed-size character windows with
// configurable overlap, suitable for embedding.
package chunker

// DefaultChunkSize is the default window size in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between consecutive windows.
const DefaultOverlap = 200

// Chunk is one window of a document. Positions are rune offsets into the
// original text.
type Chunk struct {
	Content  string
	StartPos int
	EndPos   int
}

// Options configures the chunking behavior.
type Options struct {
	ChunkSize int // Window size in characters
	Overlap   int // Overlap between consecutive windows
}

// DefaultOptions returns the default chunking options.
func DefaultOptions() Options {
	return Options{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
	}
}

// Split divides text into fixed-size windows. There is no line, sentence, or
// token awareness; windows are cut at exact character counts. A text no
// longer than the window size comes back as a single chunk equal to the
// whole text. Empty text returns nil.
func Split(text string, opts Options) []Chunk {
	if text == "" {
		return nil
	}

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap >= opts.ChunkSize {
		opts.Overlap = opts.ChunkSize / 4
	}

	runes := []rune(text)
	if len(runes) <= opts.ChunkSize {
		return []Chunk{{Content: text, StartPos: 0, EndPos: len(runes)}}
	}

	step := opts.ChunkSize - opts.Overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + opts.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Content:  string(runes[start:end]),
			StartPos: start,
			EndPos:   end,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
