package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hpowernl/wafcli/internal/aggregators"
	"github.com/hpowernl/wafcli/internal/analysis"
	"github.com/hpowernl/wafcli/internal/charts"
	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/internal/dns"
	"github.com/hpowernl/wafcli/internal/export"
	"github.com/hpowernl/wafcli/internal/filters"
	"github.com/hpowernl/wafcli/internal/locator"
	"github.com/hpowernl/wafcli/internal/logging"
	"github.com/hpowernl/wafcli/internal/logreader"
	"github.com/hpowernl/wafcli/internal/report"
	"github.com/hpowernl/wafcli/internal/storage"
	"github.com/hpowernl/wafcli/internal/tui"
	"github.com/hpowernl/wafcli/internal/ui"
	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Errors that end a run with exit status 1
var (
	ErrInvalidDate = errors.New("invalid date")
	ErrNoLogFiles  = errors.New("no log files found")
	ErrNoRecords   = errors.New("no log entries found")
)

// Message returns the text printed for err before exiting
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return "Error: Date format should be YYYY-MM-DD"
	case errors.Is(err, ErrNoLogFiles):
		return "No log files found for the specified date range"
	case errors.Is(err, ErrNoRecords):
		return "No log entries found"
	default:
		return "Error: " + err.Error()
	}
}

var (
	bucket       string
	region       string
	endpoint     string
	localDir     string
	startDate    string
	endDate      string
	maxFiles     int
	outputReport string
	outputCharts string
	noCharts     bool
	outputFormat string
	exportFile   string
	countries    []string
	cidrs        []string
	rulePatterns []string
	timezone     string
	resolve      bool
	useTUI       bool
	logLevel     string
	noColor      bool
)

// RootCmd is the root command
var RootCmd = &cobra.Command{
	Use:   "wafanalyzer",
	Short: "AWS WAF Log Analyzer - threat analysis for WAF logs in S3",
	Long: `AWS WAF Log Analyzer downloads gzip-compressed WAF logs for a date range
and summarises what the firewall blocked.

Features include:
  - Top triggered rules, countries, IP addresses and URIs
  - Attack method classification
  - Hourly traffic distribution with anomaly detection
  - Text report, tables, JSON/CSV export and PNG charts`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func init() {
	defaults := config.DefaultSettings()

	flags := RootCmd.Flags()
	flags.StringVar(&bucket, "bucket", "", "S3 bucket name containing WAF logs")
	flags.StringVar(&region, "region", defaults.Analyzer.Region, "AWS region")
	flags.StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	flags.StringVar(&localDir, "local-dir", "", "Read logs from a local directory instead of S3")
	flags.StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD)")
	flags.IntVar(&maxFiles, "max-files", 0, "Maximum number of log files to process (0 = all)")
	flags.StringVar(&outputReport, "output-report", "", "Output file for text report")
	flags.StringVar(&outputCharts, "output-charts", defaults.Analyzer.ChartDir, "Output directory for charts")
	flags.BoolVar(&noCharts, "no-charts", false, "Skip chart generation")
	flags.StringVar(&outputFormat, "format", "text", "Output format (text, table, json, csv)")
	flags.StringVar(&exportFile, "export", "", "Export file for json/csv output")
	flags.StringSliceVar(&countries, "country", nil, "Only include requests from these country codes")
	flags.StringSliceVar(&cidrs, "cidr", nil, "Only include client IPs in these ranges")
	flags.StringSliceVar(&rulePatterns, "rule", nil, "Only include requests whose rule id matches these regexps")
	flags.StringVar(&timezone, "tz", "", "Time zone for hourly buckets (default local)")
	flags.BoolVar(&resolve, "resolve", false, "Reverse resolve top IPs in table output")
	flags.BoolVar(&useTUI, "tui", false, "Browse the results interactively")
	flags.StringVar(&logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")

	_ = RootCmd.MarkFlagRequired("start-date")
	_ = RootCmd.MarkFlagRequired("end-date")
}

// Execute runs the CLI, cancelling its context on SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

// Pipeline runs locate, fetch, filter and aggregate against one store
type Pipeline struct {
	Store    storage.ObjectStore
	Logger   zerolog.Logger
	Filter   *filters.RecordFilter
	Location *time.Location
	MaxFiles int
}

// Run analyses the logs between start and end inclusive
func (p *Pipeline) Run(ctx context.Context, start, end time.Time) (*models.AnalysisResult, models.FetchStats, error) {
	p.Logger.Info().
		Str("start", start.Format(config.DateLayout)).
		Str("end", end.Format(config.DateLayout)).
		Msg("Searching for log files")

	keys := locator.NewLogLocator(p.Store, p.Logger).FindLogFiles(ctx, start, end)
	if len(keys) == 0 {
		return nil, models.FetchStats{}, ErrNoLogFiles
	}
	p.Logger.Info().Int("files", len(keys)).Msg("Found log files")

	records, stats := logreader.NewLogReader(p.Store, p.Logger).ReadFiles(ctx, keys, p.MaxFiles)
	if len(records) == 0 {
		return nil, stats, ErrNoRecords
	}

	if p.Filter != nil && !p.Filter.IsEmpty() {
		records = p.Filter.Apply(records)
		p.Logger.Info().Int("kept", len(records)).Int("parsed", stats.Records).Msg("Applied filters")
	}

	p.Logger.Info().Msg("Analyzing threat patterns")
	return aggregators.Analyze(records, p.Location), stats, nil
}

// ParseDateRange parses YYYY-MM-DD start and end dates
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(config.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, start)
	}
	e, err := time.Parse(config.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, end)
	}
	return s, e, nil
}

// BuildFilter creates a record filter from the filter flags
func BuildFilter(countryCodes, ranges, patterns []string) (*filters.RecordFilter, error) {
	filter := filters.NewRecordFilter()
	if len(countryCodes) > 0 {
		filter.AddCountryFilter(countryCodes)
	}
	for _, cidr := range ranges {
		if err := filter.AddIPRangeFilter(cidr); err != nil {
			return nil, fmt.Errorf("invalid --cidr %q: %w", cidr, err)
		}
	}
	for _, pattern := range patterns {
		if err := filter.AddRulePattern(pattern); err != nil {
			return nil, fmt.Errorf("invalid --rule %q: %w", pattern, err)
		}
	}
	return filter, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, settings)

	logger := logging.New(settings.LogLevel, noColor)

	start, end, err := ParseDateRange(startDate, endDate)
	if err != nil {
		return err
	}

	loc, err := loadLocation(settings.Analyzer.Timezone)
	if err != nil {
		return err
	}

	filter, err := BuildFilter(countries, cidrs, rulePatterns)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := openStore(ctx, settings.Analyzer)
	if err != nil {
		return err
	}

	pipeline := &Pipeline{
		Store:    store,
		Logger:   logger,
		Filter:   filter,
		Location: loc,
		MaxFiles: settings.Analyzer.MaxFiles,
	}

	if useTUI {
		return runTUI(ctx, pipeline, start, end)
	}

	result, _, err := pipeline.Run(ctx, start, end)
	if err != nil {
		return err
	}
	patterns := analysis.NewHourlyAnalyzer(0, 0).Analyze(result)

	logger.Info().Msg("Generating security report")
	if err := writeOutput(ctx, cmd.OutOrStdout(), logger, result, patterns); err != nil {
		return err
	}

	if !noCharts {
		logger.Info().Msg("Creating visualizations")
		written, err := charts.NewRenderer(settings.Analyzer.ChartDir, logger).RenderAll(result)
		if err != nil {
			return err
		}
		logger.Info().Int("charts", len(written)).Str("dir", settings.Analyzer.ChartDir).Msg("Visualizations saved")
	}

	logger.Info().Msg("Analysis complete")
	return nil
}

func writeOutput(ctx context.Context, out io.Writer, logger zerolog.Logger, result *models.AnalysisResult, patterns *models.TrafficPatterns) error {
	switch strings.ToLower(outputFormat) {
	case "text":
		renderer := report.NewRenderer()
		if outputReport != "" {
			if err := renderer.WriteFile(outputReport, result); err != nil {
				return err
			}
			logger.Info().Str("file", outputReport).Msg("Report saved")
			return nil
		}
		return renderer.Write(out, result)

	case "table":
		data := &ui.SummaryData{Result: result, Patterns: patterns}
		if resolve {
			ips := make([]string, 0, config.DefaultReportSettings.TopN)
			for _, entry := range result.BlockedByIP.Top(config.DefaultReportSettings.TopN) {
				ips = append(ips, entry.Key)
			}
			data.ReverseDNS = dns.NewReverseLookup().BulkLookup(ctx, ips)
		}
		ui.NewConsoleUIWithWriter(out, !noColor).DisplaySummary(data)
		return nil

	case "json", "csv":
		if exportFile == "" {
			return fmt.Errorf("--export is required for %s output", outputFormat)
		}
		summary := export.NewSummary(result, patterns)
		exporter := export.NewDataExporter()
		var err error
		if outputFormat == "json" {
			err = exporter.ExportToJSON(summary, exportFile)
		} else {
			err = exporter.ExportToCSV(summary, exportFile)
		}
		if err != nil {
			return err
		}
		logger.Info().Str("file", exportFile).Msg("Export saved")
		return nil

	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
}

func runTUI(ctx context.Context, pipeline *Pipeline, start, end time.Time) error {
	// Log lines would corrupt the alternate screen.
	pipeline.Logger = pipeline.Logger.Level(zerolog.Disabled)

	p := tea.NewProgram(tui.NewModel(), tea.WithAltScreen())

	go func() {
		result, stats, err := pipeline.Run(ctx, start, end)
		if err != nil {
			p.Send(tui.ErrorMsg{Err: errors.New(Message(err))})
			return
		}
		p.Send(tui.DataLoadedMsg{
			Result:   result,
			Patterns: analysis.NewHourlyAnalyzer(0, 0).Analyze(result),
			Stats:    stats,
		})
	}()

	_, err := p.Run()
	return err
}

// applyFlags lets explicitly set flags override environment settings
func applyFlags(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	a := &settings.Analyzer

	if flags.Changed("bucket") {
		a.Bucket = bucket
	}
	if flags.Changed("region") {
		a.Region = region
	}
	if flags.Changed("endpoint") {
		a.Endpoint = endpoint
	}
	if flags.Changed("local-dir") {
		a.LocalDir = localDir
	}
	if flags.Changed("max-files") {
		a.MaxFiles = maxFiles
	}
	if flags.Changed("output-charts") {
		a.ChartDir = outputCharts
	}
	if flags.Changed("tz") {
		a.Timezone = timezone
	}
	if flags.Changed("log-level") {
		settings.LogLevel = logLevel
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

func openStore(ctx context.Context, settings config.AnalyzerSettings) (storage.ObjectStore, error) {
	if settings.LocalDir != "" {
		return storage.NewLocalStore(settings.LocalDir)
	}
	if settings.Bucket == "" {
		return nil, errors.New("--bucket is required unless --local-dir is set")
	}
	return storage.NewS3Store(ctx, storage.S3Options{
		Bucket:    settings.Bucket,
		Region:    settings.Region,
		Endpoint:  settings.Endpoint,
		AccessKey: settings.AccessKey,
		SecretKey: settings.SecretKey,
	})
}

// Main runs the command and returns the process exit status
func Main() int {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stdout, Message(err))
		return 1
	}
	return 0
}
