package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/migrate"
	"github.com/atlarge-research/m3sa/aggregate/trace"
)

// migrateOptions holds the flags of one migrate invocation.
type migrateOptions struct {
	input         string   // Directory of per-location series files
	column        string   // Column to read from every location file
	granularities []int    // Re-evaluation cadences, one selector pass each
	scale         float64  // Multiplier applied to every total (0 = off)
	convert       float64  // Divisor applied to every total (0 = off)
	order         string   // Order of scale and convert
	exclude       []string // File name prefixes to skip
	out           string   // Spliced series of the first granularity
	traceLevel    string   // Decision trace verbosity for the first granularity
}

var migrateOpts migrateOptions

// migrateCmd follows the cheapest location over time for several re-evaluation cadences
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Simulate migrating to the cheapest location at a fixed cadence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runMigrate(cmd.Context(), cmd.OutOrStdout(), migrateOpts)
		if err != nil {
			logrus.Errorf("Migration failed: %v", err)
		}
		return err
	},
}

func (o migrateOptions) validate() error {
	if o.input == "" {
		return fmt.Errorf("%w: --input is required", aggregate.ErrConfiguration)
	}
	if len(o.granularities) == 0 {
		return fmt.Errorf("%w: at least one --granularity is required", aggregate.ErrConfiguration)
	}
	if !trace.IsValidTraceLevel(o.traceLevel) {
		return fmt.Errorf("%w: unknown trace level %q; valid: %s, %s, %s", aggregate.ErrConfiguration,
			o.traceLevel, trace.TraceLevelNone, trace.TraceLevelDecisions, trace.TraceLevelCandidates)
	}
	return nil
}

func runMigrate(ctx context.Context, out io.Writer, o migrateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := o.validate(); err != nil {
		return err
	}
	pipeline, err := migrate.NewPipeline(migrate.Order(o.order), o.scale, o.convert)
	if err != nil {
		return err
	}

	locations, timestamps, err := migrate.LoadLocations(o.input, o.column, o.exclude...)
	if err != nil {
		return err
	}
	logrus.Debugf("Loaded %d locations from %s", len(locations), o.input)

	results, err := migrate.Sweep(ctx, locations, o.granularities)
	if err != nil {
		return err
	}

	var mt *trace.MigrationTrace
	if level := trace.TraceLevel(o.traceLevel); level != "" && level != trace.TraceLevelNone {
		mt = trace.NewMigrationTrace(level, o.granularities[0])
		if _, err := migrate.SelectTraced(locations, o.granularities[0], timestamps, mt); err != nil {
			return err
		}
	}

	totals, err := migrate.Totals(locations, results, pipeline)
	if err != nil {
		return err
	}

	if o.out != "" {
		if err := migrate.WriteSpliced(o.out, o.column, timestamps, results[0]); err != nil {
			return err
		}
		logrus.Infof("Spliced series written to %s", o.out)
	}

	printTotals(out, results, totals)
	if mt != nil {
		printTraceSummary(out, mt)
	}
	color.New(color.FgGreen).Fprintf(out, "Evaluated %d locations at %d granularities\n", len(locations), len(results))
	return nil
}

// init registers the migrate flags
func init() {
	f := migrateCmd.Flags()
	f.StringVar(&migrateOpts.input, "input", "", "Directory holding one series file per location")
	f.StringVar(&migrateOpts.column, "column", "carbon_intensity", "Column to read from every location file")
	f.IntSliceVar(&migrateOpts.granularities, "granularity", []int{1, 4, 16, 32, 96}, "Re-evaluation cadences in samples")
	f.Float64Var(&migrateOpts.scale, "scale", 0, "Multiply every total by this factor (0 disables)")
	f.Float64Var(&migrateOpts.convert, "convert", 0, "Divide every total by this factor (0 disables)")
	f.StringVar(&migrateOpts.order, "order", string(migrate.ScaleFirst), "Order of post-processing steps (scale-first, convert-first)")
	f.StringSliceVar(&migrateOpts.exclude, "exclude", nil, "Skip location files whose name starts with one of these prefixes")
	f.StringVar(&migrateOpts.out, "out", "", "Write the spliced series of the first granularity to this .parquet or .csv file")
	f.StringVar(&migrateOpts.traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level for the first granularity (none, decisions, candidates)")
}
