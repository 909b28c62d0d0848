// Package render draws aggregation results as standalone HTML charts.
//
// time_series and cumulative_time_series are step line charts over raw sample indices:
// every windowed value is repeated window-size times so runs of different window counts
// share one x axis. cumulative is a horizontal bar chart of per-run totals.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/atlarge-research/m3sa/aggregate"
)

// MetaModelLabel is the legend label of the consolidated series.
const MetaModelLabel = "Meta-Model"

const (
	pixelsPerInch  = 80
	metaModelColor = "#228B22"
	metaBarColor   = "#009E73"
	metaLineWidth  = 2
)

// palette colours runs in load order, wrapping around.
var palette = []string{
	"#0072B2", "#E69F00", "#56B4E9", "#D55E00", "#CC79A7",
	"#F0E442", "#8B4513", "#999999", "#7B68EE", "#20B2AA",
}

func runColor(i int) string {
	return palette[i%len(palette)]
}

// Input is everything one chart is drawn from. Meta is nil when the meta-model is off.
type Input struct {
	Config *aggregate.Config
	Runs   []*aggregate.Run
	Meta   *aggregate.ConsolidatedSeries
}

// showRuns reports whether per-run series are drawn.
func (in Input) showRuns() bool {
	return in.Config.MultiModel || in.Meta == nil
}

// PlotPath returns where the chart for cfg is stored under outputDir.
func PlotPath(outputDir string, cfg *aggregate.Config) string {
	name := fmt.Sprintf("%s_plot_multimodel_metric=%s_window=%d.html", cfg.Mode, cfg.Metric, cfg.WindowSize)
	return filepath.Join(outputDir, "simulation-analysis", cfg.Metric, name)
}

// Renderable is a chart that can write itself as an HTML page.
type Renderable interface {
	Render(w io.Writer) error
}

// Chart builds the chart for in.Config.Mode.
func Chart(in Input) (Renderable, error) {
	if in.Config == nil {
		return nil, fmt.Errorf("%w: nil config", aggregate.ErrConfiguration)
	}
	if len(in.Runs) == 0 && in.Meta == nil {
		return nil, fmt.Errorf("%w: nothing to plot", aggregate.ErrAlignment)
	}
	switch in.Config.Mode {
	case aggregate.ModeTimeSeries:
		return timeSeriesChart(in), nil
	case aggregate.ModeCumulative:
		return cumulativeChart(in), nil
	case aggregate.ModeCumulativeTimeSeries:
		return cumulativeTimeSeriesChart(in), nil
	default:
		return nil, fmt.Errorf("%w: unknown plot_type %q", aggregate.ErrConfiguration, in.Config.Mode)
	}
}

// Render writes the chart for in as HTML to w.
func Render(w io.Writer, in Input) error {
	chart, err := Chart(in)
	if err != nil {
		return err
	}
	if err := chart.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderFile writes the chart to PlotPath under outputDir and returns that path.
func RenderFile(outputDir string, in Input) (string, error) {
	path := PlotPath(outputDir, in.Config)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", aggregate.ErrIO, filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", aggregate.ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()

	if err := Render(f, in); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: closing %s: %w", aggregate.ErrIO, path, err)
	}
	return path, nil
}

// Repeat repeats every value w times and cuts the result to limit values. A negative
// limit keeps the full repetition.
func Repeat(values []float64, w, limit int) []float64 {
	if w < 1 {
		w = 1
	}
	n := len(values) * w
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i/w]
	}
	return out
}

// CumulativeLimits returns the value-axis bounds for the cumulative bar chart: a margin
// around the smallest and largest total, or around the configured range when one is set.
func CumulativeLimits(sums []float64, configured *[2]float64) [2]float64 {
	var lo, hi float64
	if configured != nil {
		lo, hi = configured[0], configured[1]
	} else if len(sums) > 0 {
		lo, hi = sums[0], sums[0]
		for _, s := range sums[1:] {
			lo = min(lo, s)
			hi = max(hi, s)
		}
		lo *= 0.9
		hi *= 1.1
	}
	return [2]float64{lo * 0.9, hi * 1.1}
}

func globalOptions(cfg *aggregate.Config) []charts.GlobalOpts {
	width, height := 20.0, 10.0
	if len(cfg.FigSize) == 2 {
		width, height = cfg.FigSize[0], cfg.FigSize[1]
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: cfg.PlotTitle,
			Width:     strconv.Itoa(int(width*pixelsPerInch)) + "px",
			Height:    strconv.Itoa(int(height*pixelsPerInch)) + "px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    cfg.PlotTitle,
			Subtitle: fmt.Sprintf("metric=%s window=%d unit=%s", cfg.Metric, cfg.WindowSize, cfg.Unit().Display),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "8%", Left: "center"}),
		charts.WithGridOpts(opts.Grid{Top: "18%", Bottom: "10%", Left: "5%", Right: "15%", ContainLabel: opts.Bool(true)}),
	}
}

func xAxis(a aggregate.Axis) opts.XAxis {
	x := opts.XAxis{Name: a.Label, NameLocation: "middle", NameGap: 30}
	if a.HasRange() {
		x.Min, x.Max = a.Range[0], a.Range[1]
	}
	if a.HasTicks() {
		x.SplitNumber = *a.Ticks
	}
	return x
}

func yAxis(a aggregate.Axis) opts.YAxis {
	y := opts.YAxis{Name: a.Label, SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}
	if a.HasRange() {
		y.Min, y.Max = a.Range[0], a.Range[1]
	}
	if a.HasTicks() {
		y.SplitNumber = *a.Ticks
	}
	return y
}

func sampleLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

// stepLine draws one series per run plus the meta-model series, each already expanded to
// raw sample resolution.
func stepLine(cfg *aggregate.Config, runSeries [][]float64, runs []*aggregate.Run, meta []float64) *charts.Line {
	width := len(meta)
	for _, s := range runSeries {
		width = max(width, len(s))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(cfg)...)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(xAxis(cfg.XAxis())),
		charts.WithYAxisOpts(yAxis(cfg.YAxis())),
	)
	line.SetXAxis(sampleLabels(width))

	for i, s := range runSeries {
		color := runColor(i)
		line.AddSeries(runs[i].Label(), lineData(s),
			charts.WithLineChartOpts(opts.LineChart{Step: "middle", ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		)
	}
	if meta != nil {
		line.AddSeries(MetaModelLabel, lineData(meta),
			charts.WithLineChartOpts(opts.LineChart{Step: "middle", ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: metaModelColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: metaModelColor, Width: metaLineWidth, Type: "solid"}),
		)
	}
	return line
}

func timeSeriesChart(in Input) *charts.Line {
	w := in.Config.WindowSize
	var runSeries [][]float64
	if in.showRuns() {
		for _, r := range in.Runs {
			runSeries = append(runSeries, Repeat(r.Processed, w, len(r.Raw)))
		}
	}
	var meta []float64
	if in.Meta != nil {
		meta = Repeat(in.Meta.Values, w, -1)
	}
	return stepLine(in.Config, runSeries, in.Runs, meta)
}

func cumulativeTimeSeriesChart(in Input) *charts.Line {
	w := in.Config.WindowSize
	var runSeries [][]float64
	if in.showRuns() {
		for _, r := range in.Runs {
			cumulative := r.CumulativeSeries
			if cumulative == nil {
				cumulative = aggregate.RunningTotals(r.Processed, w)
			}
			runSeries = append(runSeries, Repeat(cumulative, w, len(r.Raw)))
		}
	}
	var meta []float64
	if in.Meta != nil {
		meta = Repeat(in.Meta.Cumulative, w, in.Meta.Len()*w)
	}
	return stepLine(in.Config, runSeries, in.Runs, meta)
}

func cumulativeChart(in Input) *charts.Bar {
	var labels []string
	var data []opts.BarData
	var sums []float64
	if in.showRuns() {
		for i, r := range in.Runs {
			labels = append(labels, strconv.Itoa(r.ID))
			sums = append(sums, r.Cumulative)
			data = append(data, opts.BarData{
				Name:      r.Label(),
				Value:     r.Cumulative,
				ItemStyle: &opts.ItemStyle{Color: runColor(i)},
			})
		}
	}
	if in.Meta != nil {
		labels = append(labels, MetaModelLabel)
		sums = append(sums, in.Meta.Total)
		data = append(data, opts.BarData{
			Name:      MetaModelLabel,
			Value:     in.Meta.Total,
			ItemStyle: &opts.ItemStyle{Color: metaBarColor},
		})
	}

	limits := CumulativeLimits(sums, in.Config.XAxis().Range)
	valueAxis := opts.XAxis{
		Type:         "value",
		Name:         in.Config.XLabel,
		NameLocation: "middle",
		NameGap:      30,
		Min:          limits[0],
		Max:          limits[1],
	}
	if t := in.Config.XAxis().Ticks; t != nil {
		valueAxis.SplitNumber = *t
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(in.Config)...)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(valueAxis),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Model ID"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(in.Config.Metric, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)
	bar.XYReversal()
	return bar
}
