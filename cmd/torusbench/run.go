package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/stellardyn/torusbench"
	"github.com/stellardyn/torusbench/baseline"
)

var (
	flagJr      float64
	flagJz      float64
	flagJphi    float64
	flagSamples int
	flagPeriods float64
	flagRecord  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one verification and print the metric tuple",
	Long: `Run samples the torus of the target actions, recovers every sample
through the configured action finder and applies the decision rule.

Exit status is nonzero when the verdict is fail, so the command slots
directly into CI pipelines. With a baseline database configured, the fresh
metric tuple is compared against (or recorded as) the labeled baseline.`,
	RunE: runVerification,
}

func init() {
	runCmd.Flags().Float64Var(&flagJr, "jr", -1, "radial action [kpc²/Myr] (overrides config)")
	runCmd.Flags().Float64Var(&flagJz, "jz", -1, "vertical action [kpc²/Myr] (overrides config)")
	runCmd.Flags().Float64Var(&flagJphi, "jphi", 0, "azimuthal action [kpc²/Myr] (overrides config)")
	runCmd.Flags().IntVar(&flagSamples, "samples", 0, "number of torus samples (overrides config)")
	runCmd.Flags().Float64Var(&flagPeriods, "periods", 0, "periods of the fastest angle (overrides config)")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "record this run as the labeled baseline")
}

func loadConfig(cmd *cobra.Command) (torusbench.RunConfig, error) {
	cfg := torusbench.DefaultRunConfig()
	if configPath != "" {
		var err error
		if cfg, err = torusbench.LoadRunConfig(configPath); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("jr") {
		cfg.Actions.Jr = flagJr
	}
	if cmd.Flags().Changed("jz") {
		cfg.Actions.Jz = flagJz
	}
	if cmd.Flags().Changed("jphi") {
		cfg.Actions.Jphi = flagJphi
	}
	if flagSamples > 0 {
		cfg.Samples = flagSamples
	}
	if flagPeriods > 0 {
		cfg.Periods = flagPeriods
	}
	if flagRecord {
		cfg.Baseline.Record = true
	}
	return cfg, cfg.Validate()
}

func runVerification(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return verifyAndReport(cfg)
}

// verifyAndReport executes one configured verification run end to end:
// sampling, statistics, logging, baseline handling, nonzero error on fail.
func verifyAndReport(cfg torusbench.RunConfig) error {
	units, err := cfg.InternalUnits()
	if err != nil {
		return err
	}
	pot, mapper, finder, err := cfg.BuildSuite()
	if err != nil {
		return err
	}
	target := cfg.TargetActions(units)

	slog.Info("starting verification",
		"samples", humanize.Comma(int64(cfg.Samples)),
		"periods", cfg.Periods,
		"finder", cfg.Finder,
		"Jr", cfg.Actions.Jr, "Jz", cfg.Actions.Jz, "Jphi", cfg.Actions.Jphi)

	start := time.Now()
	rep, err := torusbench.Verify(pot, mapper, finder, target, cfg.VerifyConfig())
	if err != nil {
		return err
	}
	logReport(rep, units, time.Since(start))

	if cfg.Baseline.Path != "" {
		if err := handleBaseline(cfg, rep); err != nil {
			return err
		}
	}
	if !rep.Pass {
		return fmt.Errorf("verification failed: scatter %.6f (bound %.6f), angle dispersions [%.5f %.5f %.5f]",
			rep.Scatter, rep.ScatterNorm, rep.Angles.DispR, rep.Angles.DispZ, rep.Angles.DispPhi)
	}
	return nil
}

// logReport prints the diagnostic tuple, actions scaled to physical units.
func logReport(rep torusbench.Report, u torusbench.InternalUnits, elapsed time.Duration) {
	slog.Info("recovered actions [kpc²/Myr]",
		"Jr", fmtMean(u.ActionToPhysical(rep.Actions.Avg.Jr), u.ActionToPhysical(rep.Actions.Disp.Jr)),
		"Jz", fmtMean(u.ActionToPhysical(rep.Actions.Avg.Jz), u.ActionToPhysical(rep.Actions.Disp.Jz)),
		"Jphi", fmtMean(u.ActionToPhysical(rep.Actions.Avg.Jphi), u.ActionToPhysical(rep.Actions.Disp.Jphi)))
	slog.Info("angle fits [rad/step]",
		"freq_r", humanize.Ftoa(round6(rep.Angles.Freq.Omegar)),
		"freq_z", humanize.Ftoa(round6(rep.Angles.Freq.Omegaz)),
		"freq_phi", humanize.Ftoa(round6(rep.Angles.Freq.Omegaphi)),
		"disp_r", humanize.Ftoa(round6(rep.Angles.DispR)),
		"disp_z", humanize.Ftoa(round6(rep.Angles.DispZ)),
		"disp_phi", humanize.Ftoa(round6(rep.Angles.DispPhi)))
	slog.Info("verdict",
		"pass", rep.Pass,
		"scatter", humanize.Ftoa(round6(rep.Scatter)),
		"scatter_norm", humanize.Ftoa(round6(rep.ScatterNorm)),
		"energy", humanize.Ftoa(round6(rep.Energy)),
		"elapsed", elapsed.Round(time.Microsecond).String())
}

func fmtMean(avg, disp float64) string {
	return fmt.Sprintf("%.6f±%.6f", avg, disp)
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

func handleBaseline(cfg torusbench.RunConfig, rep torusbench.Report) error {
	store, err := baseline.Open(cfg.Baseline.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	label := cfg.Baseline.Label
	if label == "" {
		label = "default"
	}
	if cfg.Baseline.Record {
		rec, err := store.Put(label, rep)
		if err != nil {
			return err
		}
		slog.Info("baseline recorded", "label", label, "id", rec.ID)
		return nil
	}

	diff, err := store.Compare(label, rep, cfg.Baseline.Tolerance)
	if err != nil {
		return err
	}
	if !diff.Within {
		return fmt.Errorf("baseline mismatch for %q: verdict match=%v, max metric delta %.3e (tol %.3e)",
			label, diff.VerdictMatch, diff.MaxDelta, cfg.Baseline.Tolerance)
	}
	slog.Info("baseline matched", "label", label, "max_delta", diff.MaxDelta)
	return nil
}
