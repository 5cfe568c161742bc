package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellardyn/torusbench"
	"github.com/stellardyn/torusbench/baseline"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Inspect recorded baseline runs",
}

var baselineShowCmd = &cobra.Command{
	Use:   "show [label]",
	Short: "Print the latest recorded metric tuple for a label",
	Args:  cobra.MaximumNArgs(1),
	RunE:  showBaseline,
}

var baselineRecordCmd = &cobra.Command{
	Use:   "record [label]",
	Short: "Run one verification and store it as the labeled baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  recordBaseline,
}

func init() {
	baselineCmd.AddCommand(baselineShowCmd)
	baselineCmd.AddCommand(baselineRecordCmd)
}

func recordBaseline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Baseline.Path == "" {
		return fmt.Errorf("no baseline database configured (set baseline.path)")
	}
	if len(args) == 1 {
		cfg.Baseline.Label = args[0]
	}
	cfg.Baseline.Record = true
	return verifyAndReport(cfg)
}

func showBaseline(cmd *cobra.Command, args []string) error {
	cfg := torusbench.DefaultRunConfig()
	if configPath != "" {
		var err error
		if cfg, err = torusbench.LoadRunConfig(configPath); err != nil {
			return err
		}
	}
	if cfg.Baseline.Path == "" {
		return fmt.Errorf("no baseline database configured (set baseline.path)")
	}
	label := cfg.Baseline.Label
	if len(args) == 1 {
		label = args[0]
	}
	if label == "" {
		label = "default"
	}

	store, err := baseline.Open(cfg.Baseline.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Latest(label)
	if err != nil {
		return err
	}
	fmt.Printf("label:    %s\nid:       %s\nrecorded: %s\npass:     %v\n",
		rec.Label, rec.ID, rec.CreatedAt, rec.Pass)
	fmt.Printf("Jr   = %.8f ± %.8f\n", rec.AvgJr, rec.DispJr)
	fmt.Printf("Jz   = %.8f ± %.8f\n", rec.AvgJz, rec.DispJz)
	fmt.Printf("Jphi = %.8f ± %.8f\n", rec.AvgJphi, rec.DispJphi)
	fmt.Printf("angle freq = [%.6f %.6f %.6f]\n", rec.FreqR, rec.FreqZ, rec.FreqPhi)
	fmt.Printf("angle disp = [%.6f %.6f %.6f]\n", rec.DispThetaR, rec.DispThetaZ, rec.DispThetaPhi)
	fmt.Printf("scatter    = %.6f (bound %.6f)\n", rec.Scatter, rec.ScatterNorm)
	return nil
}
