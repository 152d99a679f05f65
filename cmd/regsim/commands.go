package main

import (
	"context"
	"fmt"
	"strconv"

	"regsim/adapters/sqlstore"
	"regsim/app"
	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/config"
	"regsim/internal/inference"
	"regsim/internal/ingest"
	"regsim/internal/migration"

	"github.com/spf13/cobra"
)

func (c *cli) limits() ingest.Limits {
	return ingest.Limits{
		MaxObservations: c.cfg.Simulation.MaxObservations,
		MaxSimulations:  c.cfg.Simulation.MaxSimulations,
	}
}

func (c *cli) newGenerateCmd() *cobra.Command {
	var n, s, mu, beta0, beta1, sigma2 string
	var seed int64
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an observed dataset and its simulated sampling distributions",
		Long: `Draw one observed dataset plus S simulated datasets, fit each by OLS and store
the record. The printed id is the handle for test, interval, summary and export.

Example: regsim generate --n 100 --mu 0 --beta0 1 --beta1 2 --sigma2 0.01 --s 1000 --seed 42
         regsim generate --scenario scenarios/steep.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params regression.ModelParameters
			var err error

			if scenarioPath != "" {
				var sc *ingest.Scenario
				sc, params, err = ingest.LoadScenarioFile(scenarioPath, c.limits())
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("seed") {
					seed = sc.Seed
				}
			} else {
				params, err = ingest.FromForm(map[string]string{
					"N": n, "mu": mu, "beta0": beta0, "beta1": beta1, "sigma2": sigma2, "S": s,
				}, c.limits())
				if err != nil {
					return err
				}
			}

			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				rec, err := svc.Generate(cmd.Context(), app.GenerateRequest{Params: params, Seed: seed})
				if err != nil {
					return err
				}
				return c.render(newGenerateView(rec))
			})
		},
	}

	cmd.Flags().StringVar(&n, "n", "100", "Observations per dataset (N)")
	cmd.Flags().StringVar(&mu, "mu", "0", "Error mean")
	cmd.Flags().StringVar(&beta0, "beta0", "1", "True intercept")
	cmd.Flags().StringVar(&beta1, "beta1", "2", "True slope")
	cmd.Flags().StringVar(&sigma2, "sigma2", "0.01", "Error variance")
	cmd.Flags().StringVar(&s, "s", "1000", "Number of simulated datasets (S)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Master seed (0 = SIM_SEED, then random)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file; overrides the parameter flags")
	return cmd
}

func (c *cli) newTestCmd() *cobra.Command {
	var parameter, testType string
	var hypothesized float64

	cmd := &cobra.Command{
		Use:   "test [simulation-id]",
		Short: "Run an empirical hypothesis test on a stored simulation",
		Long: `Compare the observed estimate with the simulated estimates.

Test types: greater (>), less (<), two_sided (!=). The hypothesized value
defaults to the true coefficient the data was generated with.

Example: regsim test 0190c1b2-... --parameter slope --type two_sided`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseSimulationID(args[0])
			if err != nil {
				return err
			}
			param, err := regression.ParseParameter(parameter)
			if err != nil {
				return err
			}
			tt, err := regression.ParseTestType(testType)
			if err != nil {
				return err
			}
			req := inference.HypothesisRequest{Parameter: param, TestType: tt}
			if cmd.Flags().Changed("hypothesized") {
				req.HypothesizedValue = &hypothesized
			}

			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				result, err := svc.TestHypothesis(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				return c.render(testView{result})
			})
		},
	}

	cmd.Flags().StringVar(&parameter, "parameter", "slope", "Coefficient: slope|intercept")
	cmd.Flags().StringVar(&testType, "type", "two_sided", "Alternative: greater|less|two_sided")
	cmd.Flags().Float64Var(&hypothesized, "hypothesized", 0, "Hypothesized value (default: true coefficient)")
	return cmd
}

func (c *cli) newIntervalCmd() *cobra.Command {
	var parameter string
	var level, trueValue float64

	cmd := &cobra.Command{
		Use:   "interval [simulation-id]",
		Short: "Compute a percentile confidence interval from a stored simulation",
		Long: `Take the central level% of the simulated estimates as the interval.

Example: regsim interval 0190c1b2-... --parameter intercept --level 90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseSimulationID(args[0])
			if err != nil {
				return err
			}
			param, err := regression.ParseParameter(parameter)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("level") {
				level = c.cfg.Simulation.ConfidenceLevel
			}
			req := inference.IntervalRequest{Parameter: param, ConfidenceLevel: level}
			if cmd.Flags().Changed("true-value") {
				req.TrueValue = &trueValue
			}

			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				result, err := svc.ConfidenceInterval(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				return c.render(intervalView{result})
			})
		},
	}

	cmd.Flags().StringVar(&parameter, "parameter", "slope", "Coefficient: slope|intercept")
	cmd.Flags().Float64Var(&level, "level", 95, "Confidence level in percent (default: SIM_CONFIDENCE_LEVEL)")
	cmd.Flags().Float64Var(&trueValue, "true-value", 0, "Reference value for the coverage check (default: true coefficient)")
	return cmd
}

func (c *cli) newSummaryCmd() *cobra.Command {
	var parameter string

	cmd := &cobra.Command{
		Use:   "summary [simulation-id]",
		Short: "Describe the simulated sampling distribution of a coefficient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseSimulationID(args[0])
			if err != nil {
				return err
			}
			param, err := regression.ParseParameter(parameter)
			if err != nil {
				return err
			}

			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				summary, err := svc.Summary(cmd.Context(), id, param)
				if err != nil {
					return err
				}
				return c.render(summaryView{summary})
			})
		},
	}

	cmd.Flags().StringVar(&parameter, "parameter", "slope", "Coefficient: slope|intercept")
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [simulation-id]",
		Short: "Write a stored simulation to an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseSimulationID(args[0])
			if err != nil {
				return err
			}

			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				path, err := svc.Export(cmd.Context(), id, out)
				if err != nil {
					return err
				}
				return c.render(exportView{ID: id, Path: path})
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: EXPORT_DIR/<id>.xlsx)")
	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored simulations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				summaries, err := svc.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return c.render(listView(summaries))
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows (0 = all)")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [simulation-id]",
		Short: "Delete a stored simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseSimulationID(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *app.SimulationService) error {
				if err := svc.Delete(cmd.Context(), id); err != nil {
					return err
				}
				return c.render(messageView("deleted " + id.String()))
			})
		},
	}
}

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the simulations schema in the configured SQL store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Store.Driver == config.DriverMemory {
				return c.render(messageView("memory store needs no migration"))
			}
			// Open applies the migrations
			db, err := sqlstore.Open(cmd.Context(), c.cfg.Store.Driver, c.cfg.Store.DSN())
			if err != nil {
				return err
			}
			defer db.Close()
			return c.render(messageView(fmt.Sprintf("%s schema at version %s", c.cfg.Store.Driver, migration.NewRunner().Version())))
		},
	}
}

func (c *cli) withService(ctx context.Context, fn func(*app.SimulationService) error) error {
	svc, closeFn, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
