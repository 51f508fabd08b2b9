package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/davidentech/flujo-caja-v2/internal/engine"
)

func newReportCommand() *cobra.Command {
	var configPath string
	var profileName string
	var granularity string
	var sample bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report [file...]",
		Short: "Extract statements and print the period cash flow report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if granularity != "" {
				cfg.Granularity = granularity
			}
			if len(args) == 0 && !sample {
				return fmt.Errorf("no input: pass statement files or --sample")
			}

			eng := engine.New(newLogger())
			res, err := eng.Run(cmd.Context(), buildRequest(cfg, args, profileName, sample))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printReport(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "extracto", "statement profile for input files")
	cmd.Flags().StringVarP(&granularity, "granularity", "g", "", "month, quarter, semester, year or full-range")
	cmd.Flags().BoolVar(&sample, "sample", false, "include the built-in demo dataset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

func printReport(cmd *cobra.Command, res *engine.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tINCOME\tEXPENSE\tNET\tOPENING\tCLOSING")
	for _, b := range res.Buckets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Label, b.Income, b.Expense, b.NetFlow, b.Opening, b.Closing)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d transactions", len(res.Ledger))
	if res.LiquidityDays > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", ~%d days of liquidity", res.LiquidityDays)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	d := res.Diagnostics
	if len(d.DocumentErrors) > 0 || d.RejectedRows > 0 {
		fmt.Fprintf(os.Stderr, "diagnostics: %d document errors, %d rejected rows (run %s)\n",
			len(d.DocumentErrors), d.RejectedRows, d.RunID)
	}
}
