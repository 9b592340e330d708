package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/jfehrman/repotext/internal/config"
	"github.com/jfehrman/repotext/internal/embeddings"
	"github.com/jfehrman/repotext/internal/flatten"
	"github.com/jfehrman/repotext/pkg/chunker"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; a missing API key is only reported by the embedding
	// provider when a call is actually made.
	_ = godotenv.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "flatten":
			return runFlatten(os.Args[2:])
		case "watch":
			return runWatch()
		case "chunk":
			return runChunk(os.Args[2:])
		case "embed":
			return runEmbed(os.Args[2:])
		case "config":
			return runConfigInit()
		case "version", "-v", "--version":
			fmt.Printf("repotext %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		case "help", "-h", "--help":
			printUsage()
			return nil
		}
	}

	printUsage()
	return nil
}

func printUsage() {
	fmt.Println(`repotext - flatten a repository into embeddable text

Usage:
  repotext flatten     Flatten the repository into the aggregate file
  repotext watch       Flatten, then rebuild whenever the tree changes
  repotext chunk       Split the aggregate into character windows
  repotext embed       Embed a string or the chunked aggregate
  repotext config      Initialize config file
  repotext version     Show version info
  repotext help        Show this help

Flatten options:
  -root string         Directory to flatten (overrides config)
  -output string       Aggregate file to write (overrides config)
  -remove-file string  File whose contents are deleted from the aggregate
  -normalize           Strip every line of the aggregate
  -clipboard           Copy the aggregate to the clipboard
  -watch               Keep rebuilding after the initial flatten

Chunk options:
  -input string        Aggregate file to split (overrides config output)
  -size int            Window size in characters (overrides config)
  -overlap int         Window overlap in characters (overrides config)

Embed options:
  -text string         Embed a single string instead of the aggregate
  -input string        Aggregate file to chunk and embed

Examples:
  repotext flatten -root ~/repos/sqlparser-rs/src
  repotext flatten -remove-file LICENSE-HEADER.txt
  repotext chunk -size 512 -overlap 64
  repotext embed -text "This is a test document."
  repotext embed -input output.txt > vectors.json`)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runFlatten(args []string) error {
	fs := flag.NewFlagSet("flatten", flag.ExitOnError)
	root := fs.String("root", "", "Directory to flatten (overrides config)")
	output := fs.String("output", "", "Aggregate file to write (overrides config)")
	removeFile := fs.String("remove-file", "", "File whose contents are deleted from the aggregate")
	normalize := fs.Bool("normalize", false, "Strip every line of the aggregate")
	toClipboard := fs.Bool("clipboard", false, "Copy the aggregate to the clipboard")
	watch := fs.Bool("watch", false, "Keep rebuilding after the initial flatten")
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := flattenOptions(cfg, *root, *output, *removeFile, *normalize)
	if err != nil {
		return err
	}

	stats, err := flatten.Run(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Flattened %d files into %s (%d bytes)\n", stats.Files, opts.Output, stats.Bytes)

	if *toClipboard {
		data, err := os.ReadFile(opts.Output)
		if err != nil {
			return fmt.Errorf("reading aggregate: %w", err)
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			log.Warn("copying aggregate to clipboard", "err", err)
		}
	}

	if *watch {
		return startWatching(opts)
	}
	return nil
}

// flattenOptions applies CLI overrides on top of the configured flatten
// options. removeFile, when set, replaces the configured removal text with
// the contents of that file.
func flattenOptions(cfg *config.Config, root, output, removeFile string, normalize bool) (flatten.Options, error) {
	opts := flatten.Options{
		Root:                cfg.Flatten.Root,
		Output:              cfg.Flatten.Output,
		Exclude:             cfg.Flatten.Exclude,
		RemoveText:          cfg.Flatten.RemoveText,
		NormalizeWhitespace: cfg.Flatten.NormalizeWhitespace,
	}
	if root != "" {
		opts.Root = root
	}
	if output != "" {
		opts.Output = output
	}
	if normalize {
		opts.NormalizeWhitespace = true
	}
	if removeFile != "" {
		data, err := os.ReadFile(removeFile)
		if err != nil {
			return flatten.Options{}, fmt.Errorf("reading removal text: %w", err)
		}
		opts.RemoveText = string(data)
	}
	return opts, nil
}

func runWatch() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := flattenOptions(cfg, "", "", "", false)
	if err != nil {
		return err
	}

	// Initial build, then watch.
	stats, err := flatten.Run(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Flattened %d files into %s (%d bytes)\n", stats.Files, opts.Output, stats.Bytes)

	return startWatching(opts)
}

func startWatching(opts flatten.Options) error {
	watcher, err := flatten.NewWatcher(opts)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	watcher.OnRebuild = func(stats *flatten.Stats) {
		fmt.Printf("Rebuilt %s: %d files (%d bytes)\n", opts.Output, stats.Files, stats.Bytes)
	}

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", opts.Root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nStopping watcher...")
		cancel()
	}()

	return watcher.Start(ctx)
}

func runChunk(args []string) error {
	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	input := fs.String("input", "", "Aggregate file to split (overrides config output)")
	size := fs.Int("size", 0, "Window size in characters (overrides config)")
	overlap := fs.Int("overlap", -1, "Window overlap in characters (overrides config)")
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Flatten.Output
	if *input != "" {
		path = *input
	}

	opts := chunkOptions(cfg, *size, *overlap)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading aggregate: %w", err)
	}

	chunks := chunker.Split(string(data), opts)
	fmt.Printf("%d chunks (size %d, overlap %d)\n", len(chunks), opts.ChunkSize, opts.Overlap)
	for i, c := range chunks {
		preview := strings.ReplaceAll(c.Content, "\n", " ")
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		fmt.Printf("  %4d  [%d..%d)  %s\n", i, c.StartPos, c.EndPos, preview)
	}
	return nil
}

// chunkOptions applies CLI overrides on top of the configured chunking
// options. An overlap of -1 means "not set on the command line".
func chunkOptions(cfg *config.Config, size, overlap int) chunker.Options {
	opts := chunker.Options{
		ChunkSize: cfg.Chunking.Size,
		Overlap:   cfg.Chunking.Overlap,
	}
	if size > 0 {
		opts.ChunkSize = size
	}
	if overlap >= 0 {
		opts.Overlap = overlap
	}
	return opts
}

// chunkEmbedding is one line of the embed command's JSON output.
type chunkEmbedding struct {
	Index     int       `json:"index"`
	StartPos  int       `json:"start_pos"`
	EndPos    int       `json:"end_pos"`
	Embedding []float32 `json:"embedding"`
}

func runEmbed(args []string) error {
	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	text := fs.String("text", "", "Embed a single string instead of the aggregate")
	input := fs.String("input", "", "Aggregate file to chunk and embed")
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := embeddings.NewFromConfig(cfg.Embeddings)
	if err != nil {
		return err
	}

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)

	if *text != "" {
		vec, err := embedder.Embed(ctx, *text)
		if err != nil {
			return err
		}
		return enc.Encode(vec)
	}

	path := cfg.Flatten.Output
	if *input != "" {
		path = *input
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading aggregate: %w", err)
	}

	chunks := chunker.Split(string(data), chunkOptions(cfg, 0, -1))
	if len(chunks) == 0 {
		return fmt.Errorf("aggregate %s is empty", path)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	log.Info("embedded aggregate", "chunks", len(chunks), "dimensions", embedder.Dimensions())

	results := make([]chunkEmbedding, len(chunks))
	for i, c := range chunks {
		results[i] = chunkEmbedding{
			Index:     i,
			StartPos:  c.StartPos,
			EndPos:    c.EndPos,
			Embedding: vectors[i],
		}
	}
	return enc.Encode(results)
}

func runConfigInit() error {
	cfg := config.Default()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	configPath, _ := config.ConfigPath()
	fmt.Printf("Config written to: %s\n", configPath)
	return nil
}
