package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long: `Prints document, chunk and embedding counts. In the steady state
the chunk and embedding counts match; a shortfall means a file was
only partially indexed.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("store not configured")
	}

	stats, err := vectorStore.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("read statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:  %d\n", stats.DocumentCount)
	cmd.Printf("Chunks:     %d\n", stats.ChunkCount)
	cmd.Printf("Embeddings: %d\n", stats.EmbeddingCount)
	if stats.EmbeddingCount < stats.ChunkCount {
		cmd.Printf("\n%d chunks are missing embeddings; re-index the affected files with --force\n",
			stats.ChunkCount-stats.EmbeddingCount)
	}
	return nil
}
