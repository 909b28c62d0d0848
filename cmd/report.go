package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/migrate"
	"github.com/atlarge-research/m3sa/aggregate/trace"
)

func newTable(out io.Writer, title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	return tbl
}

// printRunSummaries writes one row per run with its raw-series distribution.
func printRunSummaries(out io.Writer, cfg *aggregate.Config, runs []*aggregate.Run, summaries []aggregate.Distribution) {
	tbl := newTable(out, fmt.Sprintf("%s [%s]", cfg.Metric, cfg.Unit().Display))
	tbl.AppendHeader(table.Row{"Run", "Source", "Samples", "Mean", "P50", "P95", "P99", "Sum"})
	for i, s := range summaries {
		r := runs[i]
		tbl.AppendRow(table.Row{
			r.Label(),
			runSource(r),
			humanize.Comma(int64(s.Count)),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.P50),
			fmt.Sprintf("%.2f", s.P95),
			fmt.Sprintf("%.2f", s.P99),
			humanize.FormatFloat("#,###.##", s.Sum),
		})
	}
	tbl.Render()
}

func runSource(r *aggregate.Run) string {
	if r.Meta != nil && r.Meta.Name != "" {
		return r.Meta.Name
	}
	return r.Path
}

// printConsolidated writes a one-line description of the meta-model result.
func printConsolidated(out io.Writer, cs *aggregate.ConsolidatedSeries) {
	if cs == nil {
		color.New(color.FgYellow).Fprintf(out, "Meta-model disabled\n")
		return
	}
	if cs.Mode == aggregate.ModeCumulative {
		color.New(color.FgCyan).Fprintf(out, "Meta-model total: %s\n", humanize.FormatFloat("#,###.##", cs.Total))
		return
	}
	color.New(color.FgCyan).Fprintf(out, "Meta-model series: %s values\n", humanize.Comma(int64(cs.Len())))
}

// printTotals writes the post-processed totals of every location and migration result.
func printTotals(out io.Writer, results []*migrate.Result, totals []migrate.Total) {
	migrations := make(map[string]int, len(results))
	for _, r := range results {
		migrations[migrate.ResultName(r)] = r.Migrations
	}

	tbl := newTable(out, "Totals")
	tbl.AppendHeader(table.Row{"Series", "Total", "Migrations"})
	for _, t := range totals {
		count := ""
		if n, ok := migrations[t.Name]; ok {
			count = humanize.Comma(int64(n))
		}
		tbl.AppendRow(table.Row{t.Name, humanize.FormatFloat("#,###.##", t.Value), count})
	}
	tbl.Render()
}

// printTraceSummary writes dwell and switch counts per location of a traced pass.
func printTraceSummary(out io.Writer, mt *trace.MigrationTrace) {
	s := trace.Summarize(mt)
	color.New(color.FgCyan).Fprintf(out, "Trace (granularity %d): %d decisions, %d migrations, mean saving %.2f, max saving %.2f\n",
		mt.Granularity, s.TotalDecisions, s.Migrations, s.MeanSaving, s.MaxSaving)

	names := make([]string, 0, len(s.Dwell))
	for name := range s.Dwell {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := newTable(out, "")
	tbl.AppendHeader(table.Row{"Location", "Samples", "Switches in"})
	for _, name := range names {
		tbl.AppendRow(table.Row{name, humanize.Comma(int64(s.Dwell[name])), s.SwitchDistribution[name]})
	}
	tbl.Render()
}
