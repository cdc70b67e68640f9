package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"maritime-forecast/internal/analysis"
	"maritime-forecast/internal/config"
	"maritime-forecast/internal/data"
	"maritime-forecast/internal/forecast"
	"maritime-forecast/internal/pipeline"
	"maritime-forecast/internal/report"
	"maritime-forecast/internal/store"
	"maritime-forecast/internal/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = cmdGenerate(ctx, os.Args[2:])
	case "import":
		err = cmdImport(ctx, os.Args[2:])
	case "run":
		err = cmdRun(ctx, os.Args[2:])
	case "rank":
		err = cmdRank(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli generate [--config maritime.yaml] [--seed 1] [--sqlite maritime.db]")
	fmt.Println("  cli import   --sqlite maritime.db [--from data]")
	fmt.Println("  cli run      [--config maritime.yaml] [--no-report]")
	fmt.Println("  cli rank     [--config maritime.yaml]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - generate writes synthetic raw tables to <data_dir>/raw, or to SQLite with --sqlite")
	fmt.Println("  - import copies <from>/raw CSV tables into a SQLite store")
	fmt.Println("  - run writes processed/, prediction/ and report/ under <data_dir>")
}

// commonFlags registers the flags every subcommand shares.
type commonFlags struct {
	cfgPath *string
	dataDir *string
	sqlite  *string
}

func addCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		cfgPath: fs.String("config", "", "Path to YAML config (defaults + env when empty)"),
		dataDir: fs.String("data-dir", "", "Override data_dir"),
		sqlite:  fs.String("sqlite", "", "Override store.sqlite_path"),
	}
}

func (f commonFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadUnchecked(*f.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if *f.dataDir != "" {
		cfg.DataDir = *f.dataDir
	}
	if *f.sqlite != "" {
		cfg.Store.SQLitePath = *f.sqlite
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, telemetry.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}

func cmdGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	common := addCommon(fs)
	seed := fs.Uint64("seed", 0, "Override the generator seed (0 = config value)")
	_ = fs.Parse(args)

	cfg, log, err := common.load()
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	ref, err := data.Generate(cfg.Seed, cfg.GenerationConfig())
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DataDir, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveReference(ctx, ref); err != nil {
		return err
	}
	log.Info("reference data generated",
		"seed", cfg.Seed,
		"trades", len(ref.Trades),
		"fuel_costs", len(ref.FuelCosts),
		"ports", len(ref.Ports),
		"vessels", len(ref.Vessels),
	)
	return nil
}

func cmdImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	common := addCommon(fs)
	from := fs.String("from", "", "Data directory holding raw/*.csv (default: data_dir)")
	_ = fs.Parse(args)

	cfg, log, err := common.load()
	if err != nil {
		return err
	}
	if cfg.Store.SQLitePath == "" {
		return fmt.Errorf("--sqlite (or store.sqlite_path) is required")
	}
	src := cfg.DataDir
	if *from != "" {
		src = *from
	}

	ref, err := data.NewDirStore(src).LoadReference(ctx)
	if err != nil {
		return err
	}
	dst, err := store.Open("", cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := dst.SaveReference(ctx, ref); err != nil {
		return err
	}
	log.Info("reference data imported", "from", filepath.Join(src, data.RawDir), "to", cfg.Store.SQLitePath, "trades", len(ref.Trades))
	return nil
}

func cmdRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	common := addCommon(fs)
	noReport := fs.Bool("no-report", false, "Skip charts and workbook")
	_ = fs.Parse(args)

	cfg, log, err := common.load()
	if err != nil {
		return err
	}
	shutdown, err := telemetry.SetupTracing(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	st, err := store.Open(cfg.DataDir, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ref, err := st.LoadReference(ctx)
	if err != nil {
		return err
	}
	trend, err := forecast.NewTrendModel(cfg.TrendParams())
	if err != nil {
		return err
	}
	rates, err := cfg.Rates()
	if err != nil {
		return err
	}

	res, err := pipeline.New(trend, log).Run(ctx, ref, pipeline.Options{
		Horizon:         cfg.Horizon(),
		Rates:           rates,
		FixedCostPerTon: cfg.Profit.FixedCostPerTon,
	})
	if err != nil {
		return err
	}

	paths, err := pipeline.WriteOutputs(cfg.DataDir, res)
	if err != nil {
		return err
	}
	if !*noReport {
		rendered, err := report.Render(res, filepath.Join(cfg.DataDir, data.ReportDir), cfg.RenderConfig())
		paths = append(paths, rendered...)
		if err != nil {
			return err
		}
	}
	for _, p := range paths {
		fmt.Printf("Wrote %s\n", p)
	}

	fmt.Printf("%-6s %-16s\n", "year", "predicted tons")
	for _, p := range res.Forecast {
		fmt.Printf("%-6d %-16.0f\n", p.Year, p.PredictedVolume)
	}
	if best, ok := res.BestScenario(); ok {
		fmt.Printf("Best rate=$%.2f/ton Total profit=$%.2fM (%d-%d)\n",
			best.Rate, best.TotalProfitMillionsUSD, res.Horizon.Start, res.Horizon.End)
	}
	return nil
}

func cmdRank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	common := addCommon(fs)
	_ = fs.Parse(args)

	cfg, _, err := common.load()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DataDir, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ref, err := st.LoadReference(ctx)
	if err != nil {
		return err
	}
	ports, err := analysis.ScorePorts(ref.Ports)
	if err != nil {
		return err
	}
	vessels, err := analysis.ComputeVesselCosts(ref.Vessels)
	if err != nil {
		return err
	}

	fmt.Printf("%-4s %-14s %-10s %-8s\n", "rank", "port", "country", "risk")
	for i, p := range analysis.RankPortsByRisk(ports) {
		risk, _ := p.RiskScore()
		fmt.Printf("%-4d %-14s %-10s %-8.3f\n", i+1, p.Port, p.Country, risk)
	}
	fmt.Println("")
	fmt.Printf("%-4s %-16s %-10s\n", "rank", "vessel", "$/ton")
	for i, v := range analysis.RankVesselsByCost(vessels) {
		fmt.Printf("%-4d %-16s %-10.2f\n", i+1, v.Name, v.CostPerTon)
	}
	return nil
}
