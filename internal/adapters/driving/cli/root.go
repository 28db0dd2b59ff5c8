// Package cli implements the command-line driving adapter. Commands
// talk to the core exclusively through the driving ports; wiring of
// the concrete adapters happens once, after flag parsing, in the root
// command's PersistentPreRunE.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/scribe-kb/scribe/internal/config"
	"github.com/scribe-kb/scribe/internal/core/ports/driving"
	"github.com/scribe-kb/scribe/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands depend on. Set by wireServices, or directly
// by tests (which also set wired to skip real wiring).
var (
	ingestService   driving.IngestService
	generateService driving.GenerateService
	libraryService  driving.LibraryService

	wired         bool
	closeBackends func()
)

// Persistent flags.
var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Grounded content generation from your own documents",
	Long: `Scribe ingests plain-text documents into a vector index and generates
content (FAQs, summaries, blog posts, reports) grounded exclusively in
what was ingested. When no relevant sources exist, scribe refuses to
generate rather than hallucinate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		if wired || !needsServices(cmd) {
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		closeBackends, err = wireServices(cfg)
		if err != nil {
			return err
		}
		wired = true
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default ~/.scribe/config.toml)")
}

// needsServices reports whether the command requires backend wiring.
// Informational commands stay usable without any backend configured.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return true
}

// Execute runs the root command and releases backend connections on
// the way out.
func Execute() error {
	defer func() {
		if closeBackends != nil {
			closeBackends()
		}
	}()
	return rootCmd.Execute()
}
