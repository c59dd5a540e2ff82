package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire index",
	Long:  `Removes every document, chunk and embedding from the local index.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("store not configured")
	}

	if !clearYes {
		cmd.Print("Clear the entire index? [y/N]: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := vectorStore.ClearIndex(cmd.Context()); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
