package enrich

import (
	"hknews/internal/types"
)

// Rule pairs a set of trigger keywords with the label assigned when any of
// them occurs in the item text. Rule order is a documented contract: every
// table below is evaluated top to bottom and the first match wins (tag rules
// are the exception, they accumulate).
type Rule struct {
	Keywords []string
	Label    string
}

// CategoryRules assigns the topical category. Falls through to
// DefaultCategory when nothing matches.
var CategoryRules = []Rule{
	{Keywords: []string{"trade", "export", "import"}, Label: "trade"},
	{Keywords: []string{"economic", "economy", "gdp"}, Label: "economic-indicator"},
	{Keywords: []string{"stock", "market", "index"}, Label: "equities"},
	{Keywords: []string{"currency", "exchange", "dollar"}, Label: "fx"},
	{Keywords: []string{"investment", "fund", "venture"}, Label: "investment"},
	{Keywords: []string{"bank", "finance", "financial"}, Label: "finance"},
	{Keywords: []string{"crypto", "blockchain", "fintech"}, Label: "fintech"},
	{Keywords: []string{"property", "real estate"}, Label: "real-estate"},
	{Keywords: []string{"oil", "energy", "commodity"}, Label: "commodities"},
	{Keywords: []string{"policy", "government", "regulation"}, Label: "policy"},
}

const DefaultCategory = "general"

// SubCategoryRules assigns the geographic label. No fallthrough: items
// matching none of these carry no sub-category.
var SubCategoryRules = []Rule{
	{Keywords: []string{"hong kong", "hongkong"}, Label: "Hong Kong"},
	{Keywords: []string{"china", "chinese"}, Label: "mainland China"},
	{Keywords: []string{"usa", "america"}, Label: "USA"},
	{Keywords: []string{"europe", "britain"}, Label: "Europe"},
	{Keywords: []string{"japan", "japanese"}, Label: "Japan"},
	{Keywords: []string{"korea", "korean"}, Label: "Korea"},
	{Keywords: []string{"global", "world"}, Label: "global"},
}

// ImpactRules assigns the economic-impact tier, defaulting to low.
var ImpactRules = []Rule{
	{Keywords: []string{"crisis", "billion", "major"}, Label: string(types.ImpactHigh)},
	{Keywords: []string{"growth", "million", "policy"}, Label: string(types.ImpactMedium)},
}

// TagRules accumulate: every matching rule appends its tag in table order,
// capped at MaxTags.
var TagRules = []Rule{
	{Keywords: []string{"trade"}, Label: "trade"},
	{Keywords: []string{"investment"}, Label: "investment"},
	{Keywords: []string{"stock", "market"}, Label: "markets"},
	{Keywords: []string{"finance"}, Label: "finance"},
	{Keywords: []string{"china"}, Label: "China"},
	{Keywords: []string{"hong kong"}, Label: "Hong Kong"},
	{Keywords: []string{"economy"}, Label: "economy"},
	{Keywords: []string{"policy"}, Label: "policy"},
}

const MaxTags = 5

// InsightRules pick the single interpretive sentence attached to a record.
var InsightRules = []Rule{
	{Keywords: []string{"hong kong", "hongkong"}, Label: "Hong Kong's economic trajectory shapes its standing as Asia's financial hub."},
	{Keywords: []string{"china", "chinese"}, Label: "Shifts in Chinese economic policy ripple through global supply chains and Asian economies."},
	{Keywords: []string{"trade"}, Label: "Changes in the international trade environment carry implications for intra-Asian trade flows."},
	{Keywords: []string{"investment"}, Label: "Shifting global investment flows influence Asian capital markets."},
}

const DefaultInsight = "Asia-Pacific economic trends carry implications for the wider global economy."
