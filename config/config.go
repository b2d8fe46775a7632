package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/backtest"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/policy"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/strategy"
)

// Config represents the complete simulation configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Governor GovernorConfig `json:"governor" yaml:"governor"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
}

// StrategyConfig contains the opening-range strategy parameters.
type StrategyConfig struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	WindowStart    string  `json:"window_start" yaml:"window_start"`
	WindowEnd      string  `json:"window_end" yaml:"window_end"`
	RiskFraction   float64 `json:"risk_fraction" yaml:"risk_fraction"`
	Proximity      float64 `json:"proximity,omitempty" yaml:"proximity,omitempty"`
	SRWindow       int     `json:"sr_window,omitempty" yaml:"sr_window,omitempty"`
	PatternBars    int     `json:"pattern_bars,omitempty" yaml:"pattern_bars,omitempty"`
	TakeProfitPips float64 `json:"take_profit_pips,omitempty" yaml:"take_profit_pips,omitempty"`
	MaxHold        string  `json:"max_hold,omitempty" yaml:"max_hold,omitempty"`
	PolicyMode     string  `json:"policy_mode,omitempty" yaml:"policy_mode,omitempty"`
}

// GovernorConfig contains the weekly trade-frequency parameters.
type GovernorConfig struct {
	MinTradesPerWeek     int     `json:"min_trades_per_week" yaml:"min_trades_per_week"`
	MaxTradesPerWeek     int     `json:"max_trades_per_week" yaml:"max_trades_per_week"`
	AggressionMultiplier float64 `json:"aggression_multiplier" yaml:"aggression_multiplier"`
	AggressionDay        int     `json:"aggression_day" yaml:"aggression_day"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before a run starts.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Strategy.Symbol == "" {
		return fmt.Errorf("strategy.symbol is required")
	}
	if c.Strategy.RiskFraction <= 0 || c.Strategy.RiskFraction >= 1 {
		return fmt.Errorf("strategy.risk_fraction must be between 0 and 1")
	}
	if _, err := time.Parse("15:04", c.Strategy.WindowStart); err != nil {
		return fmt.Errorf("strategy.window_start: %w", err)
	}
	if _, err := time.Parse("15:04", c.Strategy.WindowEnd); err != nil {
		return fmt.Errorf("strategy.window_end: %w", err)
	}
	if c.Strategy.MaxHold != "" {
		if _, err := time.ParseDuration(c.Strategy.MaxHold); err != nil {
			return fmt.Errorf("strategy.max_hold: %w", err)
		}
	}
	if c.Governor.MinTradesPerWeek < 0 || c.Governor.MaxTradesPerWeek < c.Governor.MinTradesPerWeek {
		return fmt.Errorf("governor trade band is invalid (min %d, max %d)",
			c.Governor.MinTradesPerWeek, c.Governor.MaxTradesPerWeek)
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal trades_file and runs_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with the bot's standard tuning.
func Default() *Config {
	return &Config{
		Account: AccountConfig{Balance: 10000},
		Strategy: StrategyConfig{
			Symbol:         "EURUSDm",
			WindowStart:    "07:00",
			WindowEnd:      "07:30",
			RiskFraction:   0.01,
			Proximity:      0.001,
			SRWindow:       20,
			PatternBars:    6,
			TakeProfitPips: 100,
			MaxHold:        "24h",
			PolicyMode:     "rule-only",
		},
		Governor: GovernorConfig{
			MinTradesPerWeek:     3,
			MaxTradesPerWeek:     10,
			AggressionMultiplier: 1.3,
			AggressionDay:        3,
		},
		Journal: JournalConfig{Type: "none"},
	}
}

// ORBConfig converts the strategy section into the strategy package's
// config type.
func (c *Config) ORBConfig() strategy.Config {
	sc := strategy.Defaults(c.Strategy.Symbol)
	sc.WindowStart = c.Strategy.WindowStart
	sc.WindowEnd = c.Strategy.WindowEnd
	if c.Strategy.Proximity > 0 {
		sc.Proximity = c.Strategy.Proximity
	}
	if c.Strategy.SRWindow > 0 {
		sc.SRWindow = c.Strategy.SRWindow
	}
	if c.Strategy.PatternBars > 0 {
		sc.PatternWindow = c.Strategy.PatternBars
	}
	if c.Strategy.TakeProfitPips > 0 {
		sc.TakeProfitPips = c.Strategy.TakeProfitPips
	}
	if c.Strategy.MaxHold != "" {
		if d, err := time.ParseDuration(c.Strategy.MaxHold); err == nil {
			sc.MaxHold = d
		}
	}
	sc.Mode = policy.ParseMode(c.Strategy.PolicyMode)
	return sc
}

// EngineConfig converts the account and strategy sections into the
// backtest engine config.
func (c *Config) EngineConfig() backtest.Config {
	return backtest.Config{
		Symbol:         c.Strategy.Symbol,
		InitialBalance: c.Account.Balance,
		RiskFraction:   c.Strategy.RiskFraction,
		PatternBars:    c.Strategy.PatternBars,
	}
}

// WeeklyConfig converts the governor section into the governor config.
func (c *Config) WeeklyConfig() backtest.GovernorConfig {
	return backtest.GovernorConfig{
		MinTradesPerWeek:     c.Governor.MinTradesPerWeek,
		MaxTradesPerWeek:     c.Governor.MaxTradesPerWeek,
		AggressionMultiplier: c.Governor.AggressionMultiplier,
		AggressionDay:        c.Governor.AggressionDay,
	}
}
