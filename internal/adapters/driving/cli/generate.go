package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

var generateCmd = &cobra.Command{
	Use:   "generate [query]",
	Short: "Generate content grounded in ingested documents",
	Long: `Retrieves the chunks most relevant to the query, assembles them into a
bounded context and generates content from that context alone. When no
chunk passes the similarity threshold the command refuses to generate
instead of inventing an answer.

The --type flag selects the output style: faq, summary, blog, report
or general.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

// searchDurationPrecision keeps the reported search time readable.
const searchDurationPrecision = time.Millisecond

// Flags for the generate command.
var (
	generateType      string
	generateTopK      int
	generateDocuments []string
	generateFilenames []string
	generateJSON      bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "", "Generation type: faq, summary, blog, report, general")
	generateCmd.Flags().IntVarP(&generateTopK, "top-k", "k", 0, "Number of chunks to retrieve (0 uses the configured default)")
	generateCmd.Flags().StringSliceVarP(&generateDocuments, "document", "d", nil, "Restrict retrieval to these document IDs")
	generateCmd.Flags().StringSliceVarP(&generateFilenames, "filename", "f", nil, "Restrict retrieval to filenames containing these substrings")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Output the full result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateService == nil {
		return errors.New("generate service not configured")
	}

	req := domain.GenerateRequest{
		Query: args[0],
		Type:  domain.GenerationType(generateType),
		Filter: domain.Filter{
			DocumentIDs: generateDocuments,
			Filenames:   generateFilenames,
		},
		TopK: generateTopK,
	}

	result, err := generateService.Generate(context.Background(), req)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if generateJSON {
		return outputGenerateJSON(cmd, result)
	}
	outputGenerateText(cmd, result)
	return nil
}

func outputGenerateJSON(cmd *cobra.Command, result domain.GenerationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputGenerateText(cmd *cobra.Command, result domain.GenerationResult) {
	if result.Warning != "" {
		cmd.Printf("Warning: %s\n\n", result.Warning)
	}

	cmd.Println(result.Content)

	if len(result.Sources) > 0 {
		cmd.Println("\nSources:")
		for i, src := range result.Sources {
			cmd.Printf("  %d. %s (chunk %d, %.0f%% relevance)\n", i+1, src.Filename, src.ChunkIndex, src.Score*100)
			cmd.Printf("     %s\n", src.Reason)
		}
	}

	cmd.Printf("\nModel: %s | Sources used: %d | Search: %s\n",
		result.Metadata.Model,
		result.Metadata.SourcesUsed,
		result.SearchDuration.Round(searchDurationPrecision),
	)
}
