package config

import "time"

// AttackCategory maps rule-id keywords to a reported attack type
type AttackCategory struct {
	Name     string
	Keywords []string
}

// AttackCategories is checked in order against the lowercased rule id; the
// first category with a matching keyword wins.
var AttackCategories = []AttackCategory{
	{Name: "SQL Injection", Keywords: []string{"sql", "sqli"}},
	{Name: "Cross-Site Scripting", Keywords: []string{"xss"}},
	{Name: "Rate Limiting", Keywords: []string{"ratelimit"}},
	{Name: "Geographic Block", Keywords: []string{"geo"}},
}

// OtherAttackCategory is reported when no keyword matches
const OtherAttackCategory = "Other"

// Log layout in the bucket
const (
	LogKeySuffix = ".gz"
	DateLayout   = "2006-01-02"
)

// ReportSettings defines report configuration
type ReportSettings struct {
	TopN            int
	TimestampFormat string
	BannerWidth     int
	RuleWidth       int
}

var DefaultReportSettings = ReportSettings{
	TopN:            10,
	TimestampFormat: "2006-01-02 15:04:05",
	BannerWidth:     60,
	RuleWidth:       30,
}

// ExportSettings defines export configuration
type ExportSettings struct {
	CSVDelimiter rune
	ChartWidth   int
	ChartHeight  int
	LabelMaxLen  int
}

var DefaultExportSettings = ExportSettings{
	CSVDelimiter: ',',
	ChartWidth:   1200,
	ChartHeight:  600,
	LabelMaxLen:  30,
}

// AnomalySettings configures hourly anomaly detection
type AnomalySettings struct {
	ZScoreThreshold float64
	PeakHours       int
}

var DefaultAnomalySettings = AnomalySettings{
	ZScoreThreshold: 2.0,
	PeakHours:       3,
}

// MetadataSettings configures the app server instance metadata lookups
type MetadataSettings struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	CacheMax int
}

var DefaultMetadataSettings = MetadataSettings{
	Timeout:  2 * time.Second,
	CacheTTL: 5 * time.Minute,
	CacheMax: 64,
}

// Severity levels used in console output
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)
