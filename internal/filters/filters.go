package filters

import (
	"net"
	"regexp"
	"strings"

	"github.com/hpowernl/wafcli/pkg/models"
)

// RecordFilter selects which WAF records take part in an analysis
type RecordFilter struct {
	countries    map[string]bool
	ipRanges     []*net.IPNet
	rulePatterns []*regexp.Regexp
	actions      map[models.Action]bool
}

// NewRecordFilter creates a filter that accepts everything
func NewRecordFilter() *RecordFilter {
	return &RecordFilter{
		countries:    make(map[string]bool),
		ipRanges:     make([]*net.IPNet, 0),
		rulePatterns: make([]*regexp.Regexp, 0),
		actions:      make(map[models.Action]bool),
	}
}

// IsEmpty reports whether no criteria are set
func (f *RecordFilter) IsEmpty() bool {
	return len(f.countries) == 0 && len(f.ipRanges) == 0 && len(f.rulePatterns) == 0 && len(f.actions) == 0
}

// ShouldInclude checks if a record should be included based on filters
func (f *RecordFilter) ShouldInclude(record *models.LogRecord) bool {
	req := record.Request()

	if len(f.actions) > 0 && !f.actions[record.Action] {
		return false
	}

	if len(f.countries) > 0 && !f.countries[strings.ToUpper(req.CountryCode())] {
		return false
	}

	if len(f.ipRanges) > 0 {
		ip := net.ParseIP(req.IP())
		if ip == nil {
			return false
		}
		inRange := false
		for _, ipRange := range f.ipRanges {
			if ipRange.Contains(ip) {
				inRange = true
				break
			}
		}
		if !inRange {
			return false
		}
	}

	if len(f.rulePatterns) > 0 {
		// Only terminating rules are matched; allowed requests usually carry "Default_Action".
		ruleID := record.RuleID()
		matched := false
		for _, pattern := range f.rulePatterns {
			if pattern.MatchString(ruleID) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the records that pass the filter. An empty filter returns records unchanged.
func (f *RecordFilter) Apply(records []*models.LogRecord) []*models.LogRecord {
	if f.IsEmpty() {
		return records
	}
	kept := make([]*models.LogRecord, 0, len(records))
	for _, record := range records {
		if f.ShouldInclude(record) {
			kept = append(kept, record)
		}
	}
	return kept
}

// AddCountryFilter adds a country filter
func (f *RecordFilter) AddCountryFilter(countries []string) {
	for _, country := range countries {
		f.countries[strings.ToUpper(country)] = true
	}
}

// AddIPRangeFilter adds an IP range filter (CIDR notation)
func (f *RecordFilter) AddIPRangeFilter(cidr string) error {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return err
	}
	f.ipRanges = append(f.ipRanges, ipNet)
	return nil
}

// AddRulePattern adds a rule id pattern filter (regex)
func (f *RecordFilter) AddRulePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	f.rulePatterns = append(f.rulePatterns, re)
	return nil
}

// AddActionFilter restricts the filter to the given actions
func (f *RecordFilter) AddActionFilter(actions []string) {
	for _, action := range actions {
		f.actions[models.Action(strings.ToUpper(action))] = true
	}
}

// ByCountries creates a filter for specific countries
func ByCountries(countries []string) *RecordFilter {
	filter := NewRecordFilter()
	filter.AddCountryFilter(countries)
	return filter
}

// BlockedOnly creates a filter for blocked requests
func BlockedOnly() *RecordFilter {
	filter := NewRecordFilter()
	filter.AddActionFilter([]string{string(models.ActionBlock)})
	return filter
}
