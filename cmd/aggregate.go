package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/export"
	"github.com/atlarge-research/m3sa/aggregate/loader"
	"github.com/atlarge-research/m3sa/aggregate/render"
)

// aggregateCmd loads every run of an output directory, plots it and records the meta-model
var aggregateCmd = &cobra.Command{
	Use:   "aggregate <config> <output-dir>",
	Short: "Aggregate the runs of a simulation output directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runAggregate(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		if err != nil {
			logrus.Errorf("Aggregation failed: %v", err)
		}
		return err
	},
}

// runAggregate performs one aggregation invocation. Every artefact is written under
// outputDir: the plot and analysis log under simulation-analysis/, the consolidated record
// under raw-output/metamodel/ when the meta-model is enabled.
func runAggregate(ctx context.Context, out io.Writer, configPath, outputDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := aggregate.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logrus.Debugf("Aggregating %s (%s, window %d) in %s", cfg.Metric, cfg.Mode, cfg.WindowSize, outputDir)

	runs, err := loader.Load(ctx, outputDir, cfg)
	if err != nil {
		return err
	}
	agg, err := aggregate.NewAggregator(cfg, runs)
	if err != nil {
		return err
	}
	meta, err := agg.Run(ctx)
	if err != nil {
		return err
	}

	plotPath, err := render.RenderFile(outputDir, render.Input{Config: cfg, Runs: agg.Runs(), Meta: meta})
	if err != nil {
		return err
	}
	logrus.Infof("Plot written to %s", plotPath)

	if meta != nil {
		recordPath, err := export.WriteConsolidated(outputDir, cfg.Metric, agg.Axis(), meta)
		if err != nil {
			return err
		}
		logrus.Infof("Meta-model written to %s", recordPath)
	}

	logPath, err := export.EnsureAnalysisLog(outputDir)
	if err != nil {
		return err
	}
	entry := export.AnalysisEntry{
		At:          start,
		Metric:      cfg.Metric,
		Unit:        cfg.Unit().Display,
		WindowSize:  cfg.WindowSize,
		SampleCount: agg.SampleCount(),
		Elapsed:     time.Since(start),
		PlotPath:    plotPath,
	}
	if err := export.AppendAnalysis(logPath, entry); err != nil {
		return err
	}

	printRunSummaries(out, cfg, agg.Runs(), agg.Summaries())
	printConsolidated(out, meta)
	color.New(color.FgGreen).Fprintf(out, "Aggregated %d runs in %s\n", len(runs), formatElapsed(entry.Elapsed))
	return nil
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
