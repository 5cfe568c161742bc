// Command torusbench runs action-angle verification for a configured torus
// and reports the verdict plus the full diagnostic metric tuple.
package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "torusbench",
	Short: "Verify torus-mapping and fudge-finder action-angle agreement",
	Long: `torusbench samples an invariant orbital torus, recovers each sampled
phase-space point through an approximate action finder, and reduces the
recovered statistics to a pass/fail verdict with diagnostic metrics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)
	},
}

func setupLogging(level string) {
	lv := slog.LevelInfo
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lv,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML run configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(baselineCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("torusbench failed", "err", err)
		os.Exit(1)
	}
}
