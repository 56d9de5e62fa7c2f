package models

import (
	"sort"
	"strings"
	"time"
)

// Unknown is the value reported for any absent field of a log record
const Unknown = "Unknown"

// Action is the terminating decision the firewall took for a request
type Action string

const (
	ActionBlock Action = "BLOCK"
	ActionAllow Action = "ALLOW"
)

// LogRecord represents one AWS WAF decision event as found in the firewall logs.
// Optional fields are pointers; read them through the accessor methods, which
// substitute Unknown for anything missing.
type LogRecord struct {
	Action            Action       `json:"action"`
	Timestamp         int64        `json:"timestamp"`
	TerminatingRuleID *string      `json:"terminatingRuleId,omitempty"`
	HTTPRequest       *HTTPRequest `json:"httpRequest,omitempty"`
}

// HTTPRequest is the request section of a WAF log record
type HTTPRequest struct {
	Country    *string  `json:"country,omitempty"`
	ClientIP   *string  `json:"clientIP,omitempty"`
	URI        *string  `json:"uri,omitempty"`
	HTTPMethod *string  `json:"httpMethod,omitempty"`
	Headers    []Header `json:"headers,omitempty"`
}

// Header is a single request header. WAF keeps headers in request order.
type Header struct {
	Name  *string `json:"name,omitempty"`
	Value *string `json:"value,omitempty"`
}

// valueOr dereferences p, falling back to def when p is nil
func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// RuleID returns the terminating rule id or Unknown
func (r *LogRecord) RuleID() string {
	return valueOr(r.TerminatingRuleID, Unknown)
}

// Request returns the request section. The result is never nil.
func (r *LogRecord) Request() *HTTPRequest {
	if r.HTTPRequest == nil {
		return &HTTPRequest{}
	}
	return r.HTTPRequest
}

// Time converts the epoch-millisecond timestamp to a time in loc
func (r *LogRecord) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(r.Timestamp).In(loc)
}

// CountryCode returns the request country or Unknown
func (h *HTTPRequest) CountryCode() string { return valueOr(h.Country, Unknown) }

// IP returns the client address or Unknown
func (h *HTTPRequest) IP() string { return valueOr(h.ClientIP, Unknown) }

// Path returns the request URI or Unknown
func (h *HTTPRequest) Path() string { return valueOr(h.URI, Unknown) }

// Method returns the HTTP method or Unknown
func (h *HTTPRequest) Method() string { return valueOr(h.HTTPMethod, Unknown) }

// Header returns the value of the first header whose name matches name
// case-insensitively. A matching header without a value yields "".
func (h *HTTPRequest) Header(name string) (string, bool) {
	for _, hdr := range h.Headers {
		if strings.EqualFold(valueOr(hdr.Name, ""), name) {
			return valueOr(hdr.Value, ""), true
		}
	}
	return "", false
}

// CounterEntry is one key of a frequency table with its count
type CounterEntry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Counter is a frequency table that remembers the order in which keys were
// first seen, so that equal counts sort by first appearance.
type Counter struct {
	index   map[string]int
	entries []CounterEntry
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Inc adds one to key
func (c *Counter) Inc(key string) {
	c.Add(key, 1)
}

// Add adds n to key
func (c *Counter) Add(key string, n int64) {
	if i, ok := c.index[key]; ok {
		c.entries[i].Count += n
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, CounterEntry{Key: key, Count: n})
}

// Get returns the count for key
func (c *Counter) Get(key string) int64 {
	if i, ok := c.index[key]; ok {
		return c.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct keys
func (c *Counter) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in first-seen order
func (c *Counter) Entries() []CounterEntry {
	out := make([]CounterEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Map returns the counts keyed by name
func (c *Counter) Map() map[string]int64 {
	m := make(map[string]int64, len(c.entries))
	for _, e := range c.entries {
		m[e.Key] = e.Count
	}
	return m
}

// Top returns the n largest entries in descending count order, ties in
// first-seen order. n <= 0 returns every entry.
func (c *Counter) Top(n int) []CounterEntry {
	sorted := c.Entries()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n > 0 && n < len(sorted) {
		return sorted[:n]
	}
	return sorted
}

// HoursPerDay is the size of the hourly distribution
const HoursPerDay = 24

// AnalysisResult contains the counters produced by one analysis run.
// It is built once by the aggregator and only read afterwards.
type AnalysisResult struct {
	TotalRequests   int64
	BlockedRequests int64
	AllowedRequests int64

	BlockedByRule    *Counter
	BlockedByCountry *Counter
	BlockedByIP      *Counter
	TopBlockedURIs   *Counter
	AttackMethods    *Counter

	HourlyDistribution [HoursPerDay]int64
}

// NewAnalysisResult creates a zeroed result with empty tables
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		BlockedByRule:    NewCounter(),
		BlockedByCountry: NewCounter(),
		BlockedByIP:      NewCounter(),
		TopBlockedURIs:   NewCounter(),
		AttackMethods:    NewCounter(),
	}
}

// BlockRate returns blocked requests as a percentage of all requests, 0 for an empty run
func (a *AnalysisResult) BlockRate() float64 {
	if a.TotalRequests == 0 {
		return 0
	}
	return float64(a.BlockedRequests) / float64(a.TotalRequests) * 100
}

// ShareOfBlocked returns count as a percentage of blocked requests, 0 when nothing was blocked
func (a *AnalysisResult) ShareOfBlocked(count int64) float64 {
	if a.BlockedRequests == 0 {
		return 0
	}
	return float64(count) / float64(a.BlockedRequests) * 100
}

// TimeRange represents a time range filter
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// FetchStats describes what the fetcher managed to read
type FetchStats struct {
	FilesProcessed int
	FilesFailed    int
	Records        int
}

// TrafficPatterns summarises the hourly distribution
type TrafficPatterns struct {
	PeakHours       []int
	LowTrafficHours []int
	MeanPerHour     float64
	StdDevPerHour   float64
	AnomalousHours  []HourAnomaly
}

// HourAnomaly is an hour whose volume deviates from the daily mean
type HourAnomaly struct {
	Hour   int
	Count  int64
	ZScore float64
}
