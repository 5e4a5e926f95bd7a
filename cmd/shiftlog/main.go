package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/shiftlog/internal/cli"
	"github.com/alexanderramin/shiftlog/internal/config"
	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/service"
	"github.com/alexanderramin/shiftlog/internal/solver"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfgPath := configPathFromArgs(args)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	logger, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", zap.String("driver", db.DriverFor(cfg.DB)))

	// Wire repositories
	repos := service.ReconcileRepos{
		Sites:       repository.NewSQLiteSiteRepo(database),
		Equipment:   repository.NewSQLiteEquipmentRepo(database),
		Activities:  repository.NewSQLiteActivityRepo(database),
		Totals:      repository.NewSQLiteTotalsRepo(database),
		Assignments: repository.NewSQLiteAssignmentRepo(database),
		Factors:     repository.NewSQLiteFactorRepo(database),
	}
	historyRepo := repository.NewSQLiteHistoryRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.Logging.UseCases {
		observers = append(observers, service.NewZapUseCaseObserver(logger))
	}
	if cfg.Logging.AuditFile != "" {
		audit, err := openAuditFile(cfg.Logging.AuditFile)
		if err != nil {
			return err
		}
		defer audit.Close()
		observers = append(observers, service.NewLogUseCaseObserver(audit))
	}

	solverOpts := solver.DefaultOptions()
	solverOpts.MaxIterations = cfg.Solver.MaxIterations
	solverOpts.Tolerance = cfg.Solver.Tolerance

	app := &cli.App{
		Sites:      service.NewSiteService(repos.Sites),
		Equipment:  service.NewEquipmentService(repos.Equipment, repos.Assignments),
		Activities: service.NewActivityService(repos.Activities, repos.Equipment),
		Totals:     service.NewTotalsService(repos.Totals),
		History:    service.NewHistoryService(historyRepo),
		Solve: service.NewReconcileService(repos, uow, service.ReconcileOptions{
			Solver:  solverOpts,
			Timeout: cfg.Solver.Timeout(),
		}, observers...),
		Import: service.NewImportService(uow, observers...),
	}

	// Prompts need a terminal on both ends.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.PersistentFlags().String("config", cfgPath, "Config file (YAML)")
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func openAuditFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening audit file: %w", err)
	}
	return f, nil
}

// configPathFromArgs finds --config before cobra runs, since the services
// the commands use are built from it.
func configPathFromArgs(args []string) string {
	fs := pflag.NewFlagSet("shiftlog", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	path := fs.String("config", config.DefaultPath(), "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return *path
}

// newLogger builds the process logger. Console format uses zap's
// development encoder; json uses the production one.
func newLogger(cfg config.LoggingConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core).Named("shiftlog"), nil
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
