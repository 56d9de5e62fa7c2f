package parser

import (
	"testing"

	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	p := NewLogParser()

	line := `{"timestamp":1709251200000,"action":"BLOCK","terminatingRuleId":"AWSManagedRulesSQLiRuleSet",` +
		`"httpRequest":{"clientIP":"203.0.113.9","country":"US","uri":"/login","httpMethod":"POST",` +
		`"headers":[{"name":"User-Agent","value":"sqlmap/1.7"}]},"extra":{"ignored":true}}`

	record, err := p.ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, models.ActionBlock, record.Action)
	assert.Equal(t, int64(1709251200000), record.Timestamp)
	assert.Equal(t, "AWSManagedRulesSQLiRuleSet", record.RuleID())
	assert.Equal(t, "203.0.113.9", record.Request().IP())
	assert.Equal(t, "US", record.Request().CountryCode())
	assert.Equal(t, "/login", record.Request().Path())
	assert.Equal(t, "POST", record.Request().Method())

	ua, ok := record.Request().Header("user-agent")
	assert.True(t, ok)
	assert.Equal(t, "sqlmap/1.7", ua)
}

func TestParseLineRejects(t *testing.T) {
	p := NewLogParser()

	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not json", "hello world"},
		{"json array", `[1,2,3]`},
		{"json null", "null"},
		{"truncated", `{"action":"BLOCK"`},
		{"wrong type", `{"action":"BLOCK","timestamp":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := p.ParseLine(tt.line)
			assert.Error(t, err)
			assert.Nil(t, record)
		})
	}
}

func TestParseLineMinimalObject(t *testing.T) {
	record, err := NewLogParser().ParseLine(`  {"action":"ALLOW"}  `)
	require.NoError(t, err)
	assert.Equal(t, models.ActionAllow, record.Action)
	assert.Nil(t, record.HTTPRequest)
	assert.Equal(t, models.Unknown, record.RuleID())
}

func TestParseUserAgent(t *testing.T) {
	info := ParseUserAgent("")
	assert.Equal(t, models.Unknown, info.Browser)
	assert.Equal(t, models.Unknown, info.Device)

	info = ParseUserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Contains(t, info.Browser, "Chrome")
	assert.Equal(t, "Desktop", info.Device)

	info = ParseUserAgent("Googlebot/2.1 (+http://www.google.com/bot.html)")
	assert.Equal(t, "Bot", info.Device)
}
