package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/olekukonko/tablewriter"
)

// ConsoleUI provides console UI functionality
type ConsoleUI struct {
	writer io.Writer
	colors bool
}

// NewConsoleUI creates a new console UI
func NewConsoleUI(enableColors bool) *ConsoleUI {
	return NewConsoleUIWithWriter(os.Stdout, enableColors)
}

// NewConsoleUIWithWriter creates a console UI writing to w
func NewConsoleUIWithWriter(w io.Writer, enableColors bool) *ConsoleUI {
	return &ConsoleUI{
		writer: w,
		colors: enableColors,
	}
}

// SummaryData bundles everything the summary view shows
type SummaryData struct {
	Result     *models.AnalysisResult
	Patterns   *models.TrafficPatterns
	ReverseDNS map[string]string
}

// DisplaySummary displays the analysis as coloured tables
func (u *ConsoleUI) DisplaySummary(data *SummaryData) {
	res := data.Result
	topN := config.DefaultReportSettings.TopN

	u.printHeader("🛡  WAF SECURITY ANALYSIS")

	u.printSection("Overall Statistics")
	u.printKeyValue("Total Requests", fmt.Sprintf("%d", res.TotalRequests))
	u.printKeyValue("Blocked Requests", fmt.Sprintf("%d", res.BlockedRequests))
	u.printKeyValue("Allowed Requests", fmt.Sprintf("%d", res.AllowedRequests))
	u.printKeyValue("Block Rate", u.colorize(fmt.Sprintf("%.2f%%", res.BlockRate()), u.blockRateColor(res.BlockRate())))
	u.printKeyValue("Unique Blocked IPs", fmt.Sprintf("%d", res.BlockedByIP.Len()))
	u.printKeyValue("Unique Countries", fmt.Sprintf("%d", res.BlockedByCountry.Len()))

	if res.AttackMethods.Len() > 0 {
		u.printSection("Attack Methods")
		u.printShareTable("Method", res, res.AttackMethods.Top(0))
	}

	if res.BlockedByRule.Len() > 0 {
		u.printSection("Top Triggered Rules")
		u.printShareTable("Rule", res, res.BlockedByRule.Top(topN))
	}

	if res.BlockedByCountry.Len() > 0 {
		u.printSection("Top Attacking Countries")
		u.printShareTable("Country", res, res.BlockedByCountry.Top(topN))
	}

	if res.BlockedByIP.Len() > 0 {
		u.printSection("Top Attacking IPs")
		u.printIPsTable(res.BlockedByIP.Top(topN), data.ReverseDNS)
	}

	if res.TopBlockedURIs.Len() > 0 {
		u.printSection("Top Blocked URIs")
		u.printShareTable("URI", res, res.TopBlockedURIs.Top(topN))
	}

	if data.Patterns != nil && res.TotalRequests > 0 {
		u.printSection("Hourly Traffic")
		u.printKeyValue("Mean / Hour", fmt.Sprintf("%.1f", data.Patterns.MeanPerHour))
		u.printKeyValue("Std Dev / Hour", fmt.Sprintf("%.1f", data.Patterns.StdDevPerHour))
		u.printKeyValue("Peak Hours", formatHours(data.Patterns.PeakHours))
		u.printKeyValue("Quiet Hours", formatHours(data.Patterns.LowTrafficHours))
		for _, anomaly := range data.Patterns.AnomalousHours {
			label := u.colorize(fmt.Sprintf("%02d:00", anomaly.Hour), u.zScoreColor(anomaly.ZScore))
			fmt.Fprintf(u.writer, "  %s  %d requests (z=%.2f)\n", label, anomaly.Count, anomaly.ZScore)
		}
	}
}

// Print helper methods
func (u *ConsoleUI) printHeader(title string) {
	if u.colors {
		color.New(color.FgCyan, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgCyan).Fprintf(u.writer, "%s\n\n", strings.Repeat("═", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	}
}

func (u *ConsoleUI) printSection(title string) {
	if u.colors {
		color.New(color.FgYellow, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgYellow).Fprintf(u.writer, "%s\n", strings.Repeat("─", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	}
}

func (u *ConsoleUI) printKeyValue(key, value string) {
	if u.colors {
		color.New(color.FgWhite, color.Bold).Fprintf(u.writer, "%-25s", key+":")
		color.New(color.FgGreen).Fprintf(u.writer, "%s\n", value)
	} else {
		fmt.Fprintf(u.writer, "%-25s %s\n", key+":", value)
	}
}

func (u *ConsoleUI) printShareTable(label string, res *models.AnalysisResult, entries []models.CounterEntry) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{label, "Blocks", "% of Blocked"})

	for _, entry := range entries {
		table.Append([]string{
			truncate(entry.Key, 50),
			fmt.Sprintf("%d", entry.Count),
			fmt.Sprintf("%.1f%%", res.ShareOfBlocked(entry.Count)),
		})
	}

	table.Render()
}

func (u *ConsoleUI) printIPsTable(entries []models.CounterEntry, reverseDNS map[string]string) {
	table := tablewriter.NewWriter(u.writer)
	header := []string{"IP", "Blocks"}
	if len(reverseDNS) > 0 {
		header = append(header, "Hostname")
	}
	table.SetHeader(header)

	for _, entry := range entries {
		row := []string{entry.Key, fmt.Sprintf("%d", entry.Count)}
		if len(reverseDNS) > 0 {
			hostname := reverseDNS[entry.Key]
			if hostname == entry.Key {
				hostname = "-"
			}
			row = append(row, truncate(hostname, 40))
		}
		table.Append(row)
	}

	table.Render()
}

func (u *ConsoleUI) colorize(text string, colorAttr color.Attribute) string {
	if u.colors {
		return color.New(colorAttr).Sprint(text)
	}
	return text
}

func (u *ConsoleUI) blockRateColor(rate float64) color.Attribute {
	return u.getSeverityColor(severityForRate(rate))
}

func (u *ConsoleUI) zScoreColor(z float64) color.Attribute {
	if z < 0 {
		return color.FgBlue
	}
	return color.FgRed
}

func (u *ConsoleUI) getSeverityColor(severity string) color.Attribute {
	switch severity {
	case config.SeverityCritical:
		return color.FgRed
	case config.SeverityHigh:
		return color.FgYellow
	case config.SeverityMedium:
		return color.FgBlue
	default:
		return color.FgGreen
	}
}

// severityForRate grades a block rate
func severityForRate(rate float64) string {
	switch {
	case rate >= 50:
		return config.SeverityCritical
	case rate >= 20:
		return config.SeverityHigh
	case rate >= 5:
		return config.SeverityMedium
	default:
		return config.SeverityLow
	}
}

func formatHours(hours []int) string {
	if len(hours) == 0 {
		return "-"
	}
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
