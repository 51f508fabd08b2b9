package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidentech/flujo-caja-v2/internal/engine"
	"github.com/davidentech/flujo-caja-v2/internal/server"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var profileName string
	var sample bool
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Run the analysis once and serve the result over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if len(args) == 0 && !sample {
				return fmt.Errorf("no input: pass statement files or --sample")
			}

			logger := newLogger()
			eng := engine.New(logger)
			res, err := eng.Run(cmd.Context(), buildRequest(cfg, args, profileName, sample))
			if err != nil {
				return err
			}

			api := server.New(logger, server.Config{
				Addr:            addr,
				ShutdownTimeout: 10 * time.Second,
			}, res)
			return api.Start()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "extracto", "statement profile for input files")
	cmd.Flags().BoolVar(&sample, "sample", false, "include the built-in demo dataset")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
