package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Reports whether the vector index and embedding backend are reachable, and the corpus size.`,
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	report, err := libraryService.Health(context.Background())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	cmd.Printf("Vector index: %s\n", reachable(report.IndexReachable))
	cmd.Printf("Embedder:     %s\n", reachable(report.EmbedderConfigured))
	cmd.Printf("Documents:    %d\n", report.TotalDocuments)
	cmd.Printf("Chunks:       %d\n", report.TotalChunks)

	if !report.IndexReachable {
		return errors.New("vector index unreachable")
	}
	return nil
}

func reachable(ok bool) string {
	if ok {
		return "ok"
	}
	return "unreachable"
}
