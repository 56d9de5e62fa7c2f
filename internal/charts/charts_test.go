package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderAll(t *testing.T) {
	res := models.NewAnalysisResult()
	res.TotalRequests = 10
	res.BlockedRequests = 6
	res.AllowedRequests = 4
	res.BlockedByRule.Add("AWS-AWSManagedRulesKnownBadInputsRuleSet-VeryLongRuleName", 4)
	res.BlockedByRule.Add("RateLimitRule", 2)
	res.BlockedByCountry.Add("US", 4)
	res.BlockedByCountry.Add("NL", 2)
	res.AttackMethods.Add("SQL Injection", 4)
	res.AttackMethods.Add("Rate Limiting", 2)
	res.HourlyDistribution[2] = 6
	res.HourlyDistribution[14] = 4

	dir := filepath.Join(t.TempDir(), "charts")
	written, err := NewRenderer(dir, zerolog.Nop()).RenderAll(res)
	require.NoError(t, err)
	require.Len(t, written, 5)

	for _, name := range []string{RequestDistributionFile, TopCountriesFile, AttackMethodsFile, HourlyDistributionFile, TopRulesFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
	}
}

func TestRenderAllSkipsEmptyCharts(t *testing.T) {
	var logs bytes.Buffer
	dir := t.TempDir()

	written, err := NewRenderer(dir, zerolog.New(&logs)).RenderAll(models.NewAnalysisResult())
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Contains(t, logs.String(), "No data for chart, skipping")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCounterValuesTruncatesLabels(t *testing.T) {
	values := counterValues([]models.CounterEntry{
		{Key: "abcdefghij", Count: 3},
		{Key: "abc", Count: 1},
	}, 5)

	assert.Equal(t, "abcde...", values[0].Label)
	assert.Equal(t, "abc", values[1].Label)
	assert.Equal(t, 3.0, values[0].Value)
}
