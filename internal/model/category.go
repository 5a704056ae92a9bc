package model

import "strings"

// Category is one of the closed set of budgeting buckets. The engine never
// emits a value outside this set.
type Category string

// The closed category set.
const (
	CategoryIncome        Category = "Income"
	CategoryRent          Category = "Rent/Mortgage"
	CategoryUtilities     Category = "Utilities"
	CategoryGroceries     Category = "Groceries"
	CategoryDining        Category = "Dining"
	CategoryTransport     Category = "Transport"
	CategoryFuel          Category = "Fuel"
	CategoryHealth        Category = "Health"
	CategorySubscriptions Category = "Subscriptions"
	CategoryShopping      Category = "Shopping"
	CategoryEducation     Category = "Education"
	CategoryTravel        Category = "Travel"
	CategoryFees          Category = "Fees"
	CategoryTransfers     Category = "Transfers"
	CategoryCash          Category = "Cash"
	CategoryTaxes         Category = "Taxes"
	CategoryCharity       Category = "Charity"
	CategoryMisc          Category = "Misc"
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryIncome,
		CategoryRent,
		CategoryUtilities,
		CategoryGroceries,
		CategoryDining,
		CategoryTransport,
		CategoryFuel,
		CategoryHealth,
		CategorySubscriptions,
		CategoryShopping,
		CategoryEducation,
		CategoryTravel,
		CategoryFees,
		CategoryTransfers,
		CategoryCash,
		CategoryTaxes,
		CategoryCharity,
		CategoryMisc,
	}
}

// ParseCategory maps a raw string onto the closed category set. The match is
// case-insensitive and tolerant of surrounding whitespace. Values outside the
// set return ok=false so callers can substitute a default.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}
