package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/ollama"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driving/cli"
	"github.com/corpora-labs/corpora-cli/internal/chunker"
	"github.com/corpora-labs/corpora-cli/internal/config"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/services"
	"github.com/corpora-labs/corpora-cli/internal/parsers/markdown"
	"github.com/corpora-labs/corpora-cli/internal/parsers/pdf"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:        cfg.Ollama.BaseURL,
		Model:          cfg.Ollama.Model,
		RequestTimeout: cfg.Ollama.RequestTimeout(),
		ConnectTimeout: cfg.Ollama.ConnectTimeout(),
	})

	splitter := chunker.New(
		chunker.WithMaxSize(cfg.Indexing.ChunkSize),
		chunker.WithOverlap(cfg.Indexing.ChunkOverlap),
	)

	parsers := []driven.Parser{
		markdown.New(),
		pdf.New(),
	}

	indexer := services.NewIndexerService(store, embedder, parsers, splitter,
		services.WithEmbedInterval(cfg.Indexing.EmbedInterval()))
	searcher := services.NewSearcher(store, embedder)

	cli.SetServices(indexer, searcher, store)
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.ExecuteContext(ctx)
}
