package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/pkg/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer formats an AnalysisResult as the plain-text security report
type Renderer struct {
	settings config.ReportSettings
	printer  *message.Printer
	now      func() time.Time
}

// NewRenderer creates a renderer with the default report settings
func NewRenderer() *Renderer {
	return &Renderer{
		settings: config.DefaultReportSettings,
		printer:  message.NewPrinter(language.English),
		now:      time.Now,
	}
}

// WithClock overrides the generation timestamp source
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render produces the report text. Lines are joined with "\n" and there is
// no trailing newline.
func (r *Renderer) Render(result *models.AnalysisResult) string {
	banner := strings.Repeat("=", r.settings.BannerWidth)
	rule := strings.Repeat("-", r.settings.RuleWidth)

	lines := []string{
		banner,
		"AWS WAF Security Analysis Report",
		banner,
		"Generated: " + r.now().Format(r.settings.TimestampFormat),
		"",
		"SUMMARY STATISTICS",
		rule,
		r.printer.Sprintf("Total Requests: %d", result.TotalRequests),
		r.printer.Sprintf("Blocked Requests: %d", result.BlockedRequests),
		r.printer.Sprintf("Allowed Requests: %d", result.AllowedRequests),
		fmt.Sprintf("Block Rate: %.2f%%", result.BlockRate()),
		"",
	}

	lines = append(lines, r.topSection("TOP TRIGGERED RULES", rule, result.BlockedByRule)...)
	lines = append(lines, "")
	lines = append(lines, r.topSection("TOP ATTACKING COUNTRIES", rule, result.BlockedByCountry)...)
	lines = append(lines, "")
	lines = append(lines, r.topSection("TOP ATTACKING IP ADDRESSES", rule, result.BlockedByIP)...)
	lines = append(lines, "")

	lines = append(lines, "ATTACK METHODS DISTRIBUTION", rule)
	for _, entry := range result.AttackMethods.Top(0) {
		lines = append(lines, r.printer.Sprintf("%s: %d (%.1f%%)", entry.Key, entry.Count, result.ShareOfBlocked(entry.Count)))
	}
	lines = append(lines, "")

	lines = append(lines, r.topSection("TOP BLOCKED URIs", rule, result.TopBlockedURIs)...)

	return strings.Join(lines, "\n")
}

func (r *Renderer) topSection(title, rule string, counter *models.Counter) []string {
	lines := []string{title, rule}
	for _, entry := range counter.Top(r.settings.TopN) {
		lines = append(lines, r.printer.Sprintf("%s: %d blocks", entry.Key, entry.Count))
	}
	return lines
}

// Write renders the report to w followed by a newline
func (r *Renderer) Write(w io.Writer, result *models.AnalysisResult) error {
	_, err := fmt.Fprintln(w, r.Render(result))
	return err
}

// WriteFile renders the report into path, replacing any existing file.
// The file holds the report text exactly.
func (r *Renderer) WriteFile(path string, result *models.AnalysisResult) error {
	if err := os.WriteFile(path, []byte(r.Render(result)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
