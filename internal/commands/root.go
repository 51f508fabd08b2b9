package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/davidentech/flujo-caja-v2/internal/buildinfo"
	"github.com/davidentech/flujo-caja-v2/internal/config"
	"github.com/davidentech/flujo-caja-v2/internal/engine"
	"github.com/davidentech/flujo-caja-v2/internal/extract"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "flujo",
		Short:   "Bank statement extraction and cash flow analysis",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newSimulateCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// loadConfig reads the YAML config when a path is given, otherwise the
// built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildRequest turns the shared CLI flags into an engine request. Each
// positional argument is a statement document parsed with the selected
// profile; the file name doubles as the ledger source tag.
func buildRequest(cfg *config.Config, files []string, profileName string, sample bool) engine.Request {
	req := engine.Request{Config: cfg, UseSample: sample}
	for _, path := range files {
		req.Documents = append(req.Documents, extract.Document{
			Path:    path,
			Source:  path,
			Profile: profileName,
		})
	}
	return req
}
