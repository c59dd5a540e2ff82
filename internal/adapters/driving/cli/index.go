package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a file or directory",
	Long: `Indexes a Markdown or PDF file, or every supported file under a
directory. Already indexed files are skipped; use --force to re-index
a single file from scratch.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index the file even if already indexed")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		if indexForce {
			return errors.New("--force applies to single files only")
		}
		return runIndexDirectory(cmd, path)
	}
	return runIndexFile(cmd, path)
}

func runIndexFile(cmd *cobra.Command, path string) error {
	report, err := indexerService.IndexFile(cmd.Context(), path, indexForce)

	var partial *domain.PartialIndexError
	switch {
	case err == nil && report.Skipped:
		cmd.Printf("%s %s (already indexed)\n", color.YellowString("skipped"), report.Path)
	case err == nil:
		cmd.Printf("%s %s (%d chunks)\n", color.GreenString("indexed"), report.Path, report.ChunksTotal)
	case errors.As(err, &partial):
		cmd.Printf("%s %s (%d of %d chunks embedded)\n",
			color.YellowString("partial"), report.Path, partial.SuccessfulChunks, report.ChunksTotal)
		cmd.Printf("re-run with --force to retry the failed chunks\n")
	default:
		return fmt.Errorf("index %s: %w", path, err)
	}
	return nil
}

func runIndexDirectory(cmd *cobra.Command, dir string) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSpinnerType(14),
	)

	report, err := indexerService.IndexDirectory(cmd.Context(), dir, func(r driving.FileReport) {
		bar.Add(1)
	})
	bar.Finish()
	cmd.Println()
	if err != nil {
		return fmt.Errorf("index %s: %w", dir, err)
	}

	for _, f := range report.Files {
		var partial *domain.PartialIndexError
		switch {
		case errors.As(f.Err, &partial):
			cmd.Printf("  %s %s (%d of %d chunks)\n",
				color.YellowString("partial"), f.Path, f.ChunksEmbedded, f.ChunksTotal)
		case f.Err != nil:
			cmd.Printf("  %s %s: %v\n", color.RedString("failed"), f.Path, f.Err)
		}
	}

	cmd.Printf("indexed %s, skipped %s, partial %s, failed %s\n",
		color.GreenString("%d", report.Indexed),
		color.YellowString("%d", report.Skipped),
		color.YellowString("%d", report.Partial),
		color.RedString("%d", report.Failed),
	)
	return nil
}
