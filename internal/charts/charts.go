package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/rs/zerolog"
	"github.com/wcharczuk/go-chart/v2"
)

// Chart file names
const (
	RequestDistributionFile = "request_distribution.png"
	TopCountriesFile        = "top_countries.png"
	AttackMethodsFile       = "attack_methods.png"
	HourlyDistributionFile  = "hourly_distribution.png"
	TopRulesFile            = "top_rules.png"
)

// renderable is satisfied by every go-chart chart type
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Renderer writes PNG charts for an AnalysisResult into a directory
type Renderer struct {
	dir      string
	settings config.ExportSettings
	topN     int
	logger   zerolog.Logger
}

// NewRenderer creates a chart renderer writing into dir
func NewRenderer(dir string, logger zerolog.Logger) *Renderer {
	return &Renderer{
		dir:      dir,
		settings: config.DefaultExportSettings,
		topN:     config.DefaultReportSettings.TopN,
		logger:   logger,
	}
}

// RenderAll creates the chart directory and writes every chart that has data.
// It returns the paths of the files written. Charts without any non-zero value
// are skipped with a warning.
func (r *Renderer) RenderAll(result *models.AnalysisResult) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	builders := []struct {
		file  string
		build func(*models.AnalysisResult) renderable
	}{
		{RequestDistributionFile, r.requestDistribution},
		{TopCountriesFile, r.topCountries},
		{AttackMethodsFile, r.attackMethods},
		{HourlyDistributionFile, r.hourlyDistribution},
		{TopRulesFile, r.topRules},
	}

	written := make([]string, 0, len(builders))
	for _, b := range builders {
		c := b.build(result)
		if c == nil {
			r.logger.Warn().Str("chart", b.file).Msg("No data for chart, skipping")
			continue
		}

		path := filepath.Join(r.dir, b.file)
		if err := writePNG(path, c); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writePNG(path string, c renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := c.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) requestDistribution(result *models.AnalysisResult) renderable {
	values := nonZeroValues([]chart.Value{
		{Label: "Blocked", Value: float64(result.BlockedRequests)},
		{Label: "Allowed", Value: float64(result.AllowedRequests)},
	})
	if len(values) == 0 {
		return nil
	}
	return &chart.PieChart{
		Title:  "Request Distribution",
		Width:  r.settings.ChartHeight,
		Height: r.settings.ChartHeight,
		Values: values,
	}
}

func (r *Renderer) attackMethods(result *models.AnalysisResult) renderable {
	values := nonZeroValues(counterValues(result.AttackMethods.Top(0), 0))
	if len(values) == 0 {
		return nil
	}
	return &chart.PieChart{
		Title:  "Attack Methods Distribution",
		Width:  r.settings.ChartHeight,
		Height: r.settings.ChartHeight,
		Values: values,
	}
}

func (r *Renderer) topCountries(result *models.AnalysisResult) renderable {
	return r.barChart("Top 10 Attacking Countries", counterValues(result.BlockedByCountry.Top(r.topN), 0))
}

func (r *Renderer) topRules(result *models.AnalysisResult) renderable {
	return r.barChart("Top 10 Triggered Rules", counterValues(result.BlockedByRule.Top(r.topN), r.settings.LabelMaxLen))
}

func (r *Renderer) barChart(title string, bars []chart.Value) renderable {
	top := maxValue(bars)
	if top == 0 {
		return nil
	}
	return &chart.BarChart{
		Title:    title,
		Width:    r.settings.ChartWidth,
		Height:   r.settings.ChartHeight,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 120},
		},
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
}

func (r *Renderer) hourlyDistribution(result *models.AnalysisResult) renderable {
	xs := make([]float64, models.HoursPerDay)
	ys := make([]float64, models.HoursPerDay)
	var top float64
	for hour, count := range result.HourlyDistribution {
		xs[hour] = float64(hour)
		ys[hour] = float64(count)
		if ys[hour] > top {
			top = ys[hour]
		}
	}
	if top == 0 {
		return nil
	}

	ticks := make([]chart.Tick, 0, models.HoursPerDay)
	for hour := 0; hour < models.HoursPerDay; hour += 2 {
		ticks = append(ticks, chart.Tick{Value: float64(hour), Label: fmt.Sprintf("%02d", hour)})
	}

	return &chart.Chart{
		Title:  "Hourly Request Distribution",
		Width:  r.settings.ChartWidth,
		Height: r.settings.ChartHeight,
		XAxis: chart.XAxis{
			Name:  "Hour of Day",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Number of Requests",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Requests",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2,
					DotWidth:    4,
				},
			},
		},
	}
}

// counterValues converts entries to chart values, truncating labels longer
// than maxLen to maxLen characters plus "..." (no truncation when maxLen is 0).
func counterValues(entries []models.CounterEntry, maxLen int) []chart.Value {
	values := make([]chart.Value, 0, len(entries))
	for _, entry := range entries {
		label := entry.Key
		if maxLen > 0 && len(label) > maxLen {
			label = label[:maxLen] + "..."
		}
		values = append(values, chart.Value{Label: label, Value: float64(entry.Count)})
	}
	return values
}

func nonZeroValues(values []chart.Value) []chart.Value {
	kept := make([]chart.Value, 0, len(values))
	for _, v := range values {
		if v.Value > 0 {
			kept = append(kept, v)
		}
	}
	return kept
}

func maxValue(values []chart.Value) float64 {
	var top float64
	for _, v := range values {
		if v.Value > top {
			top = v.Value
		}
	}
	return top
}
