package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/backtest"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/config"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/journal"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/patterns"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the ORB strategy over historical bar data",
	Long: `Backtest replays a CSV of OHLCV bars through the opening-range
breakout rule set and prints a performance report.

The CSV must have columns time,open,high,low,close,volume with RFC3339
timestamps in strictly increasing order.

Example:
  orb backtest --data data/eurusd_h1.csv --symbol EURUSDm --balance 10000`,
	RunE: runBacktestCmd,
}

var (
	btConfigPath string
	btDataPath   string
	btFrom       string
	btTo         string
	btSymbol     string
	btBalance    float64
	btRisk       float64
	btMode       string
	btDBPath     string
	btTradesCSV  string
	btRunsCSV    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to YAML/JSON config file")
	backtestCmd.Flags().StringVarP(&btDataPath, "data", "d", "", "path to bar CSV (time,open,high,low,close,volume) (required)")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "only replay bars at or after this time (RFC3339 or YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "only replay bars at or before this time (RFC3339 or YYYY-MM-DD)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "instrument symbol (overrides config)")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "starting account balance (overrides config)")
	backtestCmd.Flags().Float64Var(&btRisk, "risk", 0, "fraction of balance risked per trade (overrides config)")
	backtestCmd.Flags().StringVar(&btMode, "mode", "", "decision mode: rule-only, policy-gated, policy-only (overrides config)")
	backtestCmd.Flags().StringVar(&btDBPath, "db", "", "journal trades and run summary to this SQLite file")
	backtestCmd.Flags().StringVar(&btTradesCSV, "trades-csv", "", "journal trades to this CSV file (with --runs-csv)")
	backtestCmd.Flags().StringVar(&btRunsCSV, "runs-csv", "", "journal run summaries to this CSV file (with --trades-csv)")

	backtestCmd.MarkFlagRequired("data")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig(btConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	from, err := parseTimeFlag(btFrom)
	if err != nil {
		return fmt.Errorf("bad --from: %w", err)
	}
	to, err := parseTimeFlag(btTo)
	if err != nil {
		return fmt.Errorf("bad --to: %w", err)
	}

	series, err := market.LoadCSV(cfg.Strategy.Symbol, btDataPath, from, to)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	log.WithFields(logrus.Fields{
		"symbol": cfg.Strategy.Symbol,
		"bars":   series.Len(),
	}).Info("loaded bar series")

	eng, err := buildEngine(cfg, series, log)
	if err != nil {
		return err
	}

	report, err := eng.Run()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	report.Print(os.Stdout)

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		if err := report.WriteJournal(j); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		log.WithField("run_id", report.RunID).Info("run journaled")
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// applyOverrides folds command-line flags into the loaded config.
func applyOverrides(cfg *config.Config) {
	if btSymbol != "" {
		cfg.Strategy.Symbol = btSymbol
	}
	if btBalance > 0 {
		cfg.Account.Balance = btBalance
	}
	if btRisk > 0 {
		cfg.Strategy.RiskFraction = btRisk
	}
	if btMode != "" {
		cfg.Strategy.PolicyMode = btMode
	}
	if btDBPath != "" {
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: btDBPath}
	}
	if btTradesCSV != "" && btRunsCSV != "" {
		cfg.Journal = config.JournalConfig{Type: "csv", TradesFile: btTradesCSV, RunsFile: btRunsCSV}
	}
}

// buildEngine assembles a fresh strategy, governor and engine from the
// config. Each call returns an independent engine.
func buildEngine(cfg *config.Config, series *market.BarSeries, log logrus.FieldLogger) (*backtest.Engine, error) {
	sig, err := strategy.New(cfg.ORBConfig(), patterns.NewDetector(), nil, log)
	if err != nil {
		return nil, err
	}
	gov := backtest.NewGovernor(cfg.WeeklyConfig(), log)
	return backtest.NewEngine(cfg.EngineConfig(), series, sig, gov, log)
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.RunsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

func parseTimeFlag(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
