package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/mssola/useragent"
)

// LogParser turns WAF JSON log lines into records
type LogParser struct{}

// NewLogParser creates a new log parser instance
func NewLogParser() *LogParser {
	return &LogParser{}
}

// ParseLine parses a single JSON log line. Anything that is not a JSON object
// is rejected.
func (p *LogParser) ParseLine(line string) (*models.LogRecord, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty line")
	}
	if !strings.HasPrefix(line, "{") {
		return nil, fmt.Errorf("not a JSON object")
	}

	var record models.LogRecord
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &record, nil
}

// UserAgentInfo contains parsed user agent information
type UserAgentInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent parses user agent string
func ParseUserAgent(uaStr string) *UserAgentInfo {
	if uaStr == "" || uaStr == "-" {
		return &UserAgentInfo{
			Browser: models.Unknown,
			OS:      models.Unknown,
			Device:  models.Unknown,
		}
	}

	ua := useragent.New(uaStr)

	browser, version := ua.Browser()
	browserStr := browser
	if version != "" {
		browserStr = fmt.Sprintf("%s %s", browser, version)
	}

	device := "Desktop"
	if ua.Mobile() {
		device = "Mobile"
	} else if ua.Bot() {
		device = "Bot"
	}

	return &UserAgentInfo{
		Browser: browserStr,
		OS:      ua.OS(),
		Device:  device,
	}
}
