package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orb",
	Short: "Opening-range breakout backtesting and parameter research",
	Long: `orb is a historical simulation tool for the opening-range breakout
strategy. It replays OHLCV bar data through the full entry/exit rule
set with risk-based position sizing and weekly trade-frequency
governance.

It provides tools for:
  - Backtesting the ORB strategy over CSV bar data
  - Grid-searching strategy parameters against a chosen metric
  - Journaling trades and run summaries to CSV or SQLite`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
