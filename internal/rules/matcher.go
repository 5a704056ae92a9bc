// Package rules implements the deterministic first pass of the categorization
// engine: an ordered list of region-scoped pattern rules evaluated against
// normalized transaction text.
package rules

import (
	"regexp"
	"strings"

	"github.com/ledgerlens/ledgerlens/internal/model"
	"github.com/ledgerlens/ledgerlens/internal/normalize"
)

// Confidence defaults applied when a rule does not fix its own.
const (
	keywordConfidence = 0.95
	regexConfidence   = 0.90
)

// Matcher evaluates an ordered rule list. Order is part of the contract: the
// first satisfying rule wins and short-circuits the scan.
type Matcher struct {
	compiled map[string]*regexp.Regexp
	rules    []model.Rule
}

// NewMatcher creates a matcher over the given rules, pre-compiling regex
// patterns. A rule with an invalid pattern keeps its keyword behavior but can
// never match by regex.
func NewMatcher(rules []model.Rule) *Matcher {
	m := &Matcher{
		rules:    rules,
		compiled: make(map[string]*regexp.Regexp),
	}

	for _, rule := range rules {
		if rule.Pattern == "" {
			continue
		}
		if re, err := regexp.Compile("(?i)" + rule.Pattern); err == nil {
			m.compiled[rule.ID] = re
		}
	}

	return m
}

// Match returns the categorization for the first rule the transaction
// satisfies, or ok=false on a miss. A miss is not an error; it signals the
// caller to fall through to the cache/AI path.
func (m *Matcher) Match(txn model.Transaction) (model.Categorization, bool) {
	text := normalize.Text(txn.MerchantName, txn.Description)
	region := model.InferRegion(txn)

	for _, rule := range m.rules {
		if rule.Region != model.RegionAll && rule.Region != region {
			continue
		}

		matched, confidence := m.evaluate(rule, text)
		if !matched {
			continue
		}
		if rule.Confidence > 0 {
			confidence = rule.Confidence
		}

		txnType := rule.Type
		if txnType == "" {
			txnType = model.TypeFromAmount(txn.Amount)
		}

		return model.Categorization{
			TransactionID: txn.ID,
			Category:      rule.Category,
			Type:          txnType,
			Source:        model.SourceRule,
			RuleID:        rule.ID,
			Confidence:    confidence,
		}, true
	}

	return model.Categorization{}, false
}

// evaluate tests one rule against normalized text: keyword containment first,
// then the compiled regex.
func (m *Matcher) evaluate(rule model.Rule, text string) (bool, float64) {
	for _, kw := range rule.Keywords {
		if strings.Contains(text, kw) {
			return true, keywordConfidence
		}
	}

	if re, ok := m.compiled[rule.ID]; ok && re.MatchString(text) {
		return true, regexConfidence
	}

	return false, 0
}

// Rules returns the rule list in evaluation order.
func (m *Matcher) Rules() []model.Rule {
	return m.rules
}
