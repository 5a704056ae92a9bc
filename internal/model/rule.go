package model

// Rule is a static, hand-authored matcher mapping normalized transaction text
// to a category. Rules are immutable process-wide configuration, evaluated in
// declaration order with first-match-wins semantics, so specific merchant
// rules must be listed before generic patterns.
type Rule struct {
	ID       string
	Region   Region // RegionAll matches every transaction
	Keywords []string
	Pattern  string // regular expression, tested case-insensitively when keywords miss
	Category Category
	Type     TransactionType // optional fixed override; empty defers to the amount sign
	// Confidence overrides the per-kind defaults (0.95 keyword, 0.90 regex)
	// when non-zero.
	Confidence float64
}
