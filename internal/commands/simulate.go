package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/davidentech/flujo-caja-v2/internal/config"
	"github.com/davidentech/flujo-caja-v2/internal/engine"
)

func newSimulateCommand() *cobra.Command {
	var configPath string
	var profileName string
	var periods int
	var incomeDelta string
	var expenseDelta string
	var growthRate string
	var sample bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "simulate [file...]",
		Short: "Project future periods under what-if assumptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if periods > 0 {
				cfg.ScenarioPeriods = periods
			}
			if incomeDelta != "" || expenseDelta != "" || growthRate != "" {
				cfg.Assumptions = append(cfg.Assumptions, config.Assumption{
					AppliesFrom:  1,
					IncomeDelta:  incomeDelta,
					ExpenseDelta: expenseDelta,
					GrowthRate:   growthRate,
				})
			}
			if len(cfg.Assumptions) == 0 {
				return fmt.Errorf("no assumptions: pass --income-delta, --expense-delta or --growth, or set them in the config")
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
				return enc.Encode(res.Projections)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PERIOD\tINCOME\tEXPENSE\tNET\tCLOSING")
			for _, b := range res.Projections {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					b.Label, b.Income, b.Expense, b.NetFlow, b.Closing)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "extracto", "statement profile for input files")
	cmd.Flags().IntVarP(&periods, "periods", "n", 0, "number of future periods to project")
	cmd.Flags().StringVar(&incomeDelta, "income-delta", "", "recurring income change per period")
	cmd.Flags().StringVar(&expenseDelta, "expense-delta", "", "recurring expense change per period")
	cmd.Flags().StringVar(&growthRate, "growth", "", "compounding growth rate, e.g. 0.1")
	cmd.Flags().BoolVar(&sample, "sample", false, "include the built-in demo dataset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the projections as JSON")

	return cmd
}
