package aggregators

import (
	"time"

	"github.com/hpowernl/wafcli/internal/analysis"
	"github.com/hpowernl/wafcli/pkg/models"
)

// ThreatAggregator tallies WAF decisions into an AnalysisResult.
// It is not safe for concurrent use; one aggregator belongs to one run.
type ThreatAggregator struct {
	result     *models.AnalysisResult
	classifier *analysis.AttackClassifier
	location   *time.Location

	// lastUserAgent holds the user agent of the most recent blocked request.
	// Nothing reports on it yet.
	lastUserAgent string
}

// NewThreatAggregator creates an aggregator bucketing hours in loc
// (time.Local when nil).
func NewThreatAggregator(loc *time.Location) *ThreatAggregator {
	if loc == nil {
		loc = time.Local
	}
	return &ThreatAggregator{
		result:     models.NewAnalysisResult(),
		classifier: analysis.NewAttackClassifier(),
		location:   loc,
	}
}

// AddRecord adds a single record
func (a *ThreatAggregator) AddRecord(record *models.LogRecord) {
	res := a.result
	res.TotalRequests++

	switch record.Action {
	case models.ActionBlock:
		res.BlockedRequests++

		ruleID := record.RuleID()
		req := record.Request()

		res.BlockedByRule.Inc(ruleID)
		res.BlockedByCountry.Inc(req.CountryCode())
		res.BlockedByIP.Inc(req.IP())
		res.TopBlockedURIs.Inc(req.Path())

		if ua, ok := req.Header("user-agent"); ok {
			a.lastUserAgent = ua
		} else {
			a.lastUserAgent = ""
		}

		res.AttackMethods.Inc(a.classifier.Classify(ruleID))

	case models.ActionAllow:
		res.AllowedRequests++
	}

	res.HourlyDistribution[record.Time(a.location).Hour()]++
}

// Result returns the accumulated result. The aggregator must not be used afterwards.
func (a *ThreatAggregator) Result() *models.AnalysisResult {
	return a.result
}

// Analyze aggregates records in a single pass
func Analyze(records []*models.LogRecord, loc *time.Location) *models.AnalysisResult {
	agg := NewThreatAggregator(loc)
	for _, record := range records {
		agg.AddRecord(record)
	}
	return agg.Result()
}
