package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"regsim/adapters/excel"
	"regsim/adapters/memory"
	"regsim/adapters/rng"
	"regsim/adapters/sqlstore"
	"regsim/app"
	"regsim/internal"
	"regsim/internal/config"
	"regsim/internal/errors"
	"regsim/internal/simulation"
	"regsim/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli carries state shared by every subcommand
type cli struct {
	out        io.Writer
	jsonOutput bool
	cfg        *config.Config
	logger     *internal.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cli{out: os.Stdout}).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "%s: %v\n", errors.Classify(err), err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regsim",
		Short: "Monte Carlo sampling distributions of OLS regression estimates",
		Long: `Simulate datasets from y = beta0 + beta1*x + e, fit each by least squares and
run empirical hypothesis tests and percentile confidence intervals on the
resulting sampling distributions.

Configuration is read from the environment (and a .env file when present):
- STORE_DRIVER=memory|sqlite|postgres (default: sqlite)
- SQLITE_PATH (default: regsim.db), DATABASE_URL for postgres
- SIM_WORKERS, SIM_SEED, SIM_HISTOGRAM_BINS, SIM_CONFIDENCE_LEVEL
- EXPORT_DIR, LOG_LEVEL

The memory store lives only as long as one command; use sqlite or postgres
to run inference on a simulation generated by an earlier command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Emit JSON instead of text")

	rootCmd.AddCommand(
		c.newGenerateCmd(),
		c.newTestCmd(),
		c.newIntervalCmd(),
		c.newSummaryCmd(),
		c.newExportCmd(),
		c.newListCmd(),
		c.newDeleteCmd(),
		c.newMigrateCmd(),
	)

	return rootCmd
}

func (c *cli) init() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return nil
}

// openService wires the configured store into a simulation service.
// The returned close function releases the database connection.
func (c *cli) openService(ctx context.Context) (*app.SimulationService, func(), error) {
	repo, closeFn, err := c.openRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := app.NewSimulationService(
		simulation.NewEngine(simulation.WithWorkers(c.cfg.Simulation.Workers)),
		repo,
		rng.NewSeededAdapter(),
		excel.NewExporter(c.cfg.Simulation.HistogramBins),
		c.logger,
		c.cfg,
	)
	return svc, closeFn, nil
}

func (c *cli) openRepository(ctx context.Context) (ports.SimulationRepository, func(), error) {
	if c.cfg.Store.Driver == config.DriverMemory {
		c.logger.Debug("using in-memory store")
		return memory.NewSimulationRepository(), func() {}, nil
	}

	db, err := sqlstore.Open(ctx, c.cfg.Store.Driver, c.cfg.Store.DSN())
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("using %s store", c.cfg.Store.Driver)
	return sqlstore.NewSimulationRepository(db), func() { db.Close() }, nil
}
