package rules

import "github.com/ledgerlens/ledgerlens/internal/model"

// DefaultRules returns the static rule set, in evaluation order. Keywords are
// written in normalized form (lower case, no punctuation). Specific merchant
// rules come before generic patterns; reordering changes behavior.
func DefaultRules() []model.Rule {
	return []model.Rule{
		// Subscriptions - named services before anything generic
		{ID: "sub_netflix", Region: model.RegionAll, Keywords: []string{"netflix"}, Category: model.CategorySubscriptions},
		{ID: "sub_spotify", Region: model.RegionAll, Keywords: []string{"spotify"}, Category: model.CategorySubscriptions},
		{ID: "sub_disney", Region: model.RegionAll, Keywords: []string{"disney plus", "disneyplus"}, Category: model.CategorySubscriptions},
		{ID: "sub_youtube", Region: model.RegionAll, Keywords: []string{"youtube premium", "youtubepremium"}, Category: model.CategorySubscriptions},
		{ID: "sub_apple", Region: model.RegionAll, Keywords: []string{"apple com bill"}, Category: model.CategorySubscriptions},
		{ID: "sub_amazon_prime", Region: model.RegionAll, Keywords: []string{"amazon prime", "prime video"}, Category: model.CategorySubscriptions},

		// Groceries
		{ID: "gro_woolworths", Region: model.RegionAU, Keywords: []string{"woolworths"}, Category: model.CategoryGroceries},
		{ID: "gro_coles", Region: model.RegionAU, Keywords: []string{"coles"}, Category: model.CategoryGroceries},
		{ID: "gro_iga", Region: model.RegionAU, Pattern: `\biga\b`, Category: model.CategoryGroceries},
		{ID: "gro_kroger", Region: model.RegionUS, Keywords: []string{"kroger"}, Category: model.CategoryGroceries},
		{ID: "gro_wholefoods", Region: model.RegionUS, Keywords: []string{"whole foods", "wholefds"}, Category: model.CategoryGroceries},
		{ID: "gro_traderjoes", Region: model.RegionUS, Keywords: []string{"trader joe"}, Category: model.CategoryGroceries},
		{ID: "gro_aldi", Region: model.RegionAll, Pattern: `\baldi\b`, Category: model.CategoryGroceries},

		// Dining - "uber eats" must precede the plain "uber" transport rule
		{ID: "din_ubereats", Region: model.RegionAll, Keywords: []string{"uber eats", "ubereats"}, Category: model.CategoryDining},
		{ID: "din_doordash", Region: model.RegionAll, Keywords: []string{"doordash"}, Category: model.CategoryDining},
		{ID: "din_menulog", Region: model.RegionAU, Keywords: []string{"menulog"}, Category: model.CategoryDining},
		{ID: "din_mcdonalds", Region: model.RegionAll, Keywords: []string{"mcdonald"}, Category: model.CategoryDining},
		{ID: "din_starbucks", Region: model.RegionAll, Keywords: []string{"starbucks"}, Category: model.CategoryDining},
		{ID: "din_generic", Region: model.RegionAll, Pattern: `\b(restaurant|cafe|pizzeria|sushi|bakery)\b`, Category: model.CategoryDining, Confidence: 0.85},

		// Transport
		{ID: "tra_uber", Region: model.RegionAll, Keywords: []string{"uber"}, Category: model.CategoryTransport},
		{ID: "tra_lyft", Region: model.RegionUS, Keywords: []string{"lyft"}, Category: model.CategoryTransport},
		{ID: "tra_opal", Region: model.RegionAU, Keywords: []string{"opal", "transportfornsw"}, Category: model.CategoryTransport},
		{ID: "tra_myki", Region: model.RegionAU, Keywords: []string{"myki"}, Category: model.CategoryTransport},

		// Fuel
		{ID: "fue_caltex", Region: model.RegionAU, Keywords: []string{"caltex", "ampol"}, Category: model.CategoryFuel},
		{ID: "fue_chevron", Region: model.RegionUS, Keywords: []string{"chevron"}, Category: model.CategoryFuel},
		{ID: "fue_shell", Region: model.RegionAll, Pattern: `\bshell\b`, Category: model.CategoryFuel},
		{ID: "fue_bp", Region: model.RegionAll, Pattern: `\bbp\b`, Category: model.CategoryFuel},

		// Utilities
		{ID: "utl_agl", Region: model.RegionAU, Pattern: `\bagl\b`, Category: model.CategoryUtilities},
		{ID: "utl_origin", Region: model.RegionAU, Keywords: []string{"origin energy"}, Category: model.CategoryUtilities},
		{ID: "utl_telstra", Region: model.RegionAU, Keywords: []string{"telstra"}, Category: model.CategoryUtilities},
		{ID: "utl_comcast", Region: model.RegionUS, Keywords: []string{"comcast", "xfinity"}, Category: model.CategoryUtilities},
		{ID: "utl_verizon", Region: model.RegionUS, Keywords: []string{"verizon"}, Category: model.CategoryUtilities},
		{ID: "utl_generic", Region: model.RegionAll, Pattern: `\b(electricity|water corp|gas bill|internet)\b`, Category: model.CategoryUtilities, Confidence: 0.8},

		// Health
		{ID: "hlt_chemist", Region: model.RegionAU, Keywords: []string{"chemist warehouse", "priceline pharmacy"}, Category: model.CategoryHealth},
		{ID: "hlt_cvs", Region: model.RegionUS, Pattern: `\bcvs\b`, Category: model.CategoryHealth},
		{ID: "hlt_walgreens", Region: model.RegionUS, Keywords: []string{"walgreens"}, Category: model.CategoryHealth},
		{ID: "hlt_generic", Region: model.RegionAll, Pattern: `\b(pharmacy|medical|dental|clinic|physio)\b`, Category: model.CategoryHealth},

		// Shopping
		{ID: "shp_kmart", Region: model.RegionAU, Keywords: []string{"kmart"}, Category: model.CategoryShopping},
		{ID: "shp_target", Region: model.RegionAll, Pattern: `\btarget\b`, Category: model.CategoryShopping},
		{ID: "shp_amazon", Region: model.RegionAll, Keywords: []string{"amazon", "amzn"}, Category: model.CategoryShopping},
		{ID: "shp_ebay", Region: model.RegionAll, Keywords: []string{"ebay"}, Category: model.CategoryShopping},

		// Education
		{ID: "edu_generic", Region: model.RegionAll, Pattern: `\b(university|tafe|tuition|udemy|coursera)\b`, Category: model.CategoryEducation},

		// Travel
		{ID: "tvl_qantas", Region: model.RegionAll, Keywords: []string{"qantas", "jetstar"}, Category: model.CategoryTravel},
		{ID: "tvl_airbnb", Region: model.RegionAll, Keywords: []string{"airbnb"}, Category: model.CategoryTravel},
		{ID: "tvl_generic", Region: model.RegionAll, Pattern: `\b(expedia|hotel|airline|booking com)\b`, Category: model.CategoryTravel, Confidence: 0.85},

		// Housing
		{ID: "rnt_generic", Region: model.RegionAll, Pattern: `\b(rent|mortgage|real estate|realty)\b`, Category: model.CategoryRent, Type: model.TypeDebit},

		// Income
		{ID: "inc_payroll", Region: model.RegionAll, Pattern: `\b(payroll|salary|wages|direct dep)\b`, Category: model.CategoryIncome, Type: model.TypeCredit},
		{ID: "inc_interest", Region: model.RegionAll, Pattern: `\binterest\b`, Category: model.CategoryIncome, Type: model.TypeInterest},

		// Taxes
		{ID: "tax_ato", Region: model.RegionAU, Pattern: `\b(ato|australian taxation)\b`, Category: model.CategoryTaxes},
		{ID: "tax_irs", Region: model.RegionUS, Pattern: `\b(irs treas|us treasury)\b`, Category: model.CategoryTaxes},

		// Charity
		{ID: "cha_generic", Region: model.RegionAll, Pattern: `\b(red cross|salvation army|unicef|donation)\b`, Category: model.CategoryCharity},

		// Money movement - generic bank-ledger patterns last
		{ID: "cas_atm", Region: model.RegionAll, Pattern: `\b(atm|cash withdrawal|wdl)\b`, Category: model.CategoryCash, Type: model.TypeATM},
		{ID: "fee_bank", Region: model.RegionAll, Pattern: `\b(fee|surcharge|service chg|overdraft)\b`, Category: model.CategoryFees, Type: model.TypeFee},
		{ID: "trf_refund", Region: model.RegionAll, Pattern: `\b(refund|reversal|chargeback)\b`, Category: model.CategoryMisc, Type: model.TypeRefund},
		{ID: "trf_transfer", Region: model.RegionAll, Pattern: `\b(transfer|xfer|bpay|osko|zelle|venmo)\b`, Category: model.CategoryTransfers, Type: model.TypeTransfer},
	}
}
