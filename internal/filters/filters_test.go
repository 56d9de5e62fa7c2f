package filters

import (
	"testing"

	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func record(action models.Action, rule, country, ip string) *models.LogRecord {
	return &models.LogRecord{
		Action:            action,
		TerminatingRuleID: strPtr(rule),
		HTTPRequest: &models.HTTPRequest{
			Country:  strPtr(country),
			ClientIP: strPtr(ip),
		},
	}
}

func TestEmptyFilterReturnsInput(t *testing.T) {
	records := []*models.LogRecord{record(models.ActionBlock, "r", "US", "1.2.3.4"), {Action: models.ActionAllow}}

	f := NewRecordFilter()
	assert.True(t, f.IsEmpty())
	assert.Equal(t, records, f.Apply(records))
}

func TestCountryFilter(t *testing.T) {
	f := ByCountries([]string{"nl", "DE"})

	assert.True(t, f.ShouldInclude(record(models.ActionBlock, "r", "NL", "1.2.3.4")))
	assert.True(t, f.ShouldInclude(record(models.ActionAllow, "r", "de", "1.2.3.4")))
	assert.False(t, f.ShouldInclude(record(models.ActionBlock, "r", "US", "1.2.3.4")))
	assert.False(t, f.ShouldInclude(&models.LogRecord{Action: models.ActionBlock}))
}

func TestIPRangeFilter(t *testing.T) {
	f := NewRecordFilter()
	require.NoError(t, f.AddIPRangeFilter("203.0.113.0/24"))
	require.NoError(t, f.AddIPRangeFilter("2001:db8::/32"))

	assert.True(t, f.ShouldInclude(record(models.ActionBlock, "r", "US", "203.0.113.77")))
	assert.True(t, f.ShouldInclude(record(models.ActionBlock, "r", "US", "2001:db8::1")))
	assert.False(t, f.ShouldInclude(record(models.ActionBlock, "r", "US", "198.51.100.1")))
	assert.False(t, f.ShouldInclude(record(models.ActionBlock, "r", "US", "Unknown")))

	assert.Error(t, f.AddIPRangeFilter("not-a-cidr"))
}

func TestRulePatternAndActionFilters(t *testing.T) {
	f := NewRecordFilter()
	require.NoError(t, f.AddRulePattern("(?i)sqli"))
	assert.Error(t, f.AddRulePattern("("))

	records := []*models.LogRecord{
		record(models.ActionBlock, "AWSManagedRulesSQLiRuleSet", "US", "1.1.1.1"),
		record(models.ActionBlock, "RateLimitRule", "US", "1.1.1.1"),
		record(models.ActionAllow, "Default_Action", "US", "1.1.1.1"),
	}
	kept := f.Apply(records)
	require.Len(t, kept, 1)
	assert.Equal(t, "AWSManagedRulesSQLiRuleSet", kept[0].RuleID())

	kept = BlockedOnly().Apply(records)
	assert.Len(t, kept, 2)
}
