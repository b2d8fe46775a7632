package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/backtest"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/config"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/optimize"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search strategy parameters over historical data",
	Long: `Optimize runs a full backtest for every combination in a parameter
grid and reports the combination with the best score on the chosen
metric.

The grid is a YAML mapping from parameter name to a list of candidate
values. Combinations are enumerated in declaration order with the last
parameter varying fastest.

Supported parameter names:
  risk_fraction, take_profit_pips, proximity, sr_window, pattern_bars,
  window_start, window_end, max_hold, min_trades_per_week,
  max_trades_per_week, aggression_multiplier

Example:
  orb optimize --data data/eurusd_h1.csv --grid grid.yaml --metric sharpe`,
	RunE: runOptimizeCmd,
}

var (
	optConfigPath string
	optDataPath   string
	optGridPath   string
	optMetric     string
	optFrom       string
	optTo         string
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optConfigPath, "config", "c", "", "path to YAML/JSON config file")
	optimizeCmd.Flags().StringVarP(&optDataPath, "data", "d", "", "path to bar CSV (required)")
	optimizeCmd.Flags().StringVarP(&optGridPath, "grid", "g", "", "path to YAML parameter grid (required)")
	optimizeCmd.Flags().StringVarP(&optMetric, "metric", "m", backtest.MetricSharpe, "score metric (sharpe, total_return, win_rate, profit_factor)")
	optimizeCmd.Flags().StringVar(&optFrom, "from", "", "only replay bars at or after this time (RFC3339 or YYYY-MM-DD)")
	optimizeCmd.Flags().StringVar(&optTo, "to", "", "only replay bars at or before this time (RFC3339 or YYYY-MM-DD)")

	optimizeCmd.MarkFlagRequired("data")
	optimizeCmd.MarkFlagRequired("grid")
}

func runOptimizeCmd(cmd *cobra.Command, args []string) error {
	log := newLogger()

	base, err := loadConfig(optConfigPath)
	if err != nil {
		return err
	}

	gridData, err := os.ReadFile(optGridPath)
	if err != nil {
		return fmt.Errorf("read grid: %w", err)
	}
	grid, err := optimize.ParseGridYAML(gridData)
	if err != nil {
		return fmt.Errorf("parse grid: %w", err)
	}

	from, err := parseTimeFlag(optFrom)
	if err != nil {
		return fmt.Errorf("bad --from: %w", err)
	}
	to, err := parseTimeFlag(optTo)
	if err != nil {
		return fmt.Errorf("bad --to: %w", err)
	}

	series, err := market.LoadCSV(base.Strategy.Symbol, optDataPath, from, to)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	log.WithFields(logrus.Fields{
		"bars":         series.Len(),
		"combinations": grid.Size(),
		"metric":       optMetric,
	}).Info("starting grid search")

	runner := func(p optimize.Params) (*backtest.Report, error) {
		cfg := *base
		if err := applyParams(&cfg, p); err != nil {
			return nil, err
		}
		eng, err := buildEngine(&cfg, series, log)
		if err != nil {
			return nil, err
		}
		return eng.Run()
	}

	opt, err := optimize.New(optMetric, runner, log)
	if err != nil {
		return err
	}
	best, err := opt.Optimize(cmd.Context(), grid)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	fmt.Println("\nBest combination:")
	for _, k := range grid.Keys() {
		fmt.Printf("  %s: %v\n", k, best.Params[k])
	}
	fmt.Printf("  %s: %.6f\n\n", optMetric, best.Score)
	best.Report.Print(os.Stdout)
	return nil
}

// applyParams maps grid parameter names onto the config. Unknown names
// are an error so typos fail the sweep instead of silently running the
// base configuration.
func applyParams(cfg *config.Config, p optimize.Params) error {
	for k, v := range p {
		switch k {
		case "risk_fraction":
			f, ok := optimize.AsFloat(v)
			if !ok {
				return fmt.Errorf("grid: %s: want number, got %T", k, v)
			}
			cfg.Strategy.RiskFraction = f
		case "take_profit_pips":
			f, ok := optimize.AsFloat(v)
			if !ok {
				return fmt.Errorf("grid: %s: want number, got %T", k, v)
			}
			cfg.Strategy.TakeProfitPips = f
		case "proximity":
			f, ok := optimize.AsFloat(v)
			if !ok {
				return fmt.Errorf("grid: %s: want number, got %T", k, v)
			}
			cfg.Strategy.Proximity = f
		case "sr_window":
			n, ok := optimize.AsInt(v)
			if !ok {
				return fmt.Errorf("grid: %s: want integer, got %T", k, v)
			}
			cfg.Strategy.SRWindow = n
		case "pattern_bars":
			n, ok := optimize.AsInt(v)
			if !ok {
				return fmt.Errorf("grid: %s: want integer, got %T", k, v)
			}
			cfg.Strategy.PatternBars = n
		case "window_start":
			s, ok := optimize.AsString(v)
			if !ok {
				return fmt.Errorf("grid: %s: want string, got %T", k, v)
			}
			cfg.Strategy.WindowStart = s
		case "window_end":
			s, ok := optimize.AsString(v)
			if !ok {
				return fmt.Errorf("grid: %s: want string, got %T", k, v)
			}
			cfg.Strategy.WindowEnd = s
		case "max_hold":
			s, ok := optimize.AsString(v)
			if !ok {
				return fmt.Errorf("grid: %s: want duration string, got %T", k, v)
			}
			cfg.Strategy.MaxHold = s
		case "min_trades_per_week":
			n, ok := optimize.AsInt(v)
			if !ok {
				return fmt.Errorf("grid: %s: want integer, got %T", k, v)
			}
			cfg.Governor.MinTradesPerWeek = n
		case "max_trades_per_week":
			n, ok := optimize.AsInt(v)
			if !ok {
				return fmt.Errorf("grid: %s: want integer, got %T", k, v)
			}
			cfg.Governor.MaxTradesPerWeek = n
		case "aggression_multiplier":
			f, ok := optimize.AsFloat(v)
			if !ok {
				return fmt.Errorf("grid: %s: want number, got %T", k, v)
			}
			cfg.Governor.AggressionMultiplier = f
		default:
			return fmt.Errorf("grid: unknown parameter %q", k)
		}
	}
	return nil
}
