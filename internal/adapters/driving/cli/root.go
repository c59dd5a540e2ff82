// Package cli implements the corpora command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	indexerService driving.Indexer
	searchService  driving.SearchService
	vectorStore    driven.VectorStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Local semantic search over your documents",
	Long: `Corpora indexes Markdown and PDF files into a local vector store
and answers natural-language queries by semantic similarity.
Embeddings are generated by a local Ollama instance; nothing leaves
your machine.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
}

// SetServices injects the driving services used by the commands.
func SetServices(indexer driving.Indexer, search driving.SearchService, store driven.VectorStore) {
	indexerService = indexer
	searchService = search
	vectorStore = store
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context. Cancellation
// reaches long-running commands such as watch through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
