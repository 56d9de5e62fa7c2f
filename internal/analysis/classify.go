package analysis

import (
	"strings"

	"github.com/hpowernl/wafcli/internal/config"
)

// AttackClassifier derives a coarse attack type from a WAF rule id
type AttackClassifier struct {
	categories []config.AttackCategory
}

// NewAttackClassifier creates a classifier using the configured keyword table
func NewAttackClassifier() *AttackClassifier {
	return &AttackClassifier{
		categories: config.AttackCategories,
	}
}

// Classify returns the first category whose keyword occurs in ruleID,
// ignoring case, or config.OtherAttackCategory.
func (c *AttackClassifier) Classify(ruleID string) string {
	lower := strings.ToLower(ruleID)
	for _, category := range c.categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lower, keyword) {
				return category.Name
			}
		}
	}
	return config.OtherAttackCategory
}
