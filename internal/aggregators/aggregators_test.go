package aggregators

import (
	"math/rand"
	"testing"
	"time"

	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func blocked(rule, country, ip, uri string, ts time.Time) *models.LogRecord {
	return &models.LogRecord{
		Action:            models.ActionBlock,
		Timestamp:         ts.UnixMilli(),
		TerminatingRuleID: strPtr(rule),
		HTTPRequest: &models.HTTPRequest{
			Country:  strPtr(country),
			ClientIP: strPtr(ip),
			URI:      strPtr(uri),
			Headers:  []models.Header{{Name: strPtr("User-Agent"), Value: strPtr("curl/8.0")}},
		},
	}
}

func allowed(ts time.Time) *models.LogRecord {
	return &models.LogRecord{
		Action:            models.ActionAllow,
		Timestamp:         ts.UnixMilli(),
		TerminatingRuleID: strPtr("Default_Action"),
	}
}

func sampleRecords() []*models.LogRecord {
	at := func(hour int) time.Time { return time.Date(2024, 1, 15, hour, 5, 0, 0, time.UTC) }
	return []*models.LogRecord{
		blocked("AWSManagedRulesSQLiRuleSet", "US", "203.0.113.1", "/login", at(3)),
		blocked("AWSManagedRulesSQLiRuleSet", "CN", "203.0.113.2", "/search", at(3)),
		blocked("RateLimitRule", "US", "203.0.113.1", "/login", at(14)),
		allowed(at(14)),
		allowed(at(22)),
	}
}

func TestAnalyzeExample(t *testing.T) {
	res := Analyze(sampleRecords(), time.UTC)

	assert.Equal(t, int64(5), res.TotalRequests)
	assert.Equal(t, int64(3), res.BlockedRequests)
	assert.Equal(t, int64(2), res.AllowedRequests)
	assert.InDelta(t, 60.0, res.BlockRate(), 1e-9)

	assert.Equal(t, map[string]int64{"SQL Injection": 2, "Rate Limiting": 1}, res.AttackMethods.Map())
	assert.Equal(t, []models.CounterEntry{
		{Key: "AWSManagedRulesSQLiRuleSet", Count: 2},
		{Key: "RateLimitRule", Count: 1},
	}, res.BlockedByRule.Top(10))
	assert.Equal(t, int64(2), res.BlockedByCountry.Get("US"))
	assert.Equal(t, int64(2), res.BlockedByIP.Get("203.0.113.1"))
	assert.Equal(t, int64(2), res.TopBlockedURIs.Get("/login"))

	assert.Equal(t, int64(2), res.HourlyDistribution[3])
	assert.Equal(t, int64(2), res.HourlyDistribution[14])
	assert.Equal(t, int64(1), res.HourlyDistribution[22])
}

func TestAnalyzeEmpty(t *testing.T) {
	res := Analyze(nil, time.UTC)

	assert.Zero(t, res.TotalRequests)
	assert.Zero(t, res.BlockRate())
	assert.Zero(t, res.BlockedByRule.Len())
	assert.Equal(t, [models.HoursPerDay]int64{}, res.HourlyDistribution)
}

func TestBlockedWithoutRequestCountsUnknown(t *testing.T) {
	record := &models.LogRecord{Action: models.ActionBlock}

	res := Analyze([]*models.LogRecord{record}, time.UTC)

	assert.Equal(t, int64(1), res.BlockedRequests)
	assert.Equal(t, int64(1), res.BlockedByRule.Get(models.Unknown))
	assert.Equal(t, int64(1), res.BlockedByCountry.Get(models.Unknown))
	assert.Equal(t, int64(1), res.BlockedByIP.Get(models.Unknown))
	assert.Equal(t, int64(1), res.TopBlockedURIs.Get(models.Unknown))
	assert.Equal(t, int64(1), res.AttackMethods.Get("Other"))
	// Epoch zero lands in hour 0 UTC.
	assert.Equal(t, int64(1), res.HourlyDistribution[0])
}

func TestUnrecognisedActionCountsTowardTotalOnly(t *testing.T) {
	record := &models.LogRecord{Action: "COUNT", Timestamp: time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC).UnixMilli()}

	res := Analyze([]*models.LogRecord{record}, time.UTC)

	assert.Equal(t, int64(1), res.TotalRequests)
	assert.Zero(t, res.BlockedRequests)
	assert.Zero(t, res.AllowedRequests)
	assert.Equal(t, int64(1), res.HourlyDistribution[7])
	assert.LessOrEqual(t, res.BlockedRequests+res.AllowedRequests, res.TotalRequests)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	records := sampleRecords()

	first := Analyze(records, time.UTC)
	second := Analyze(records, time.UTC)

	assert.Equal(t, first, second)
}

func TestAnalyzeCountsIndependentOfOrder(t *testing.T) {
	records := sampleRecords()
	shuffled := make([]*models.LogRecord, len(records))
	copy(shuffled, records)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	a := Analyze(records, time.UTC)
	b := Analyze(shuffled, time.UTC)

	assert.Equal(t, a.TotalRequests, b.TotalRequests)
	assert.Equal(t, a.BlockedRequests, b.BlockedRequests)
	assert.Equal(t, a.BlockedByRule.Map(), b.BlockedByRule.Map())
	assert.Equal(t, a.BlockedByCountry.Map(), b.BlockedByCountry.Map())
	assert.Equal(t, a.BlockedByIP.Map(), b.BlockedByIP.Map())
	assert.Equal(t, a.TopBlockedURIs.Map(), b.TopBlockedURIs.Map())
	assert.Equal(t, a.AttackMethods.Map(), b.AttackMethods.Map())
	assert.Equal(t, a.HourlyDistribution, b.HourlyDistribution)
}

func TestHourBucketsUseLocation(t *testing.T) {
	ts := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	plusTwo := time.FixedZone("UTC+2", 2*3600)

	res := Analyze([]*models.LogRecord{allowed(ts)}, plusTwo)

	require.Equal(t, int64(1), res.HourlyDistribution[1])
}

func TestAggregatorTracksUserAgent(t *testing.T) {
	agg := NewThreatAggregator(time.UTC)
	agg.AddRecord(sampleRecords()[0])
	assert.Equal(t, "curl/8.0", agg.lastUserAgent)

	agg.AddRecord(&models.LogRecord{Action: models.ActionBlock})
	assert.Empty(t, agg.lastUserAgent)
}
