// Package enrich maps raw feed items into classified news records.
//
// Classification is deliberately simple: case-insensitive substring tests
// over the concatenated title and description, evaluated against the fixed
// rule tables in rules.go. Enrichment is pure apart from record ID
// generation, which must be unique even for identical inputs.
package enrich

import (
	"html"
	"strings"
	"time"

	"hknews/internal/types"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const summaryLimit = 200

// SourceMeta identifies the feed an item came from.
type SourceMeta struct {
	Name       string
	SourceType string
}

// Enrich converts a raw feed item into a NewsRecord. Apart from the freshly
// generated ID, output is deterministic in (item, meta).
func Enrich(item types.RawItem, meta SourceMeta) types.NewsRecord {
	text := strings.ToLower(item.Title + " " + item.Description)

	publishedAt := ""
	if item.PublishedAt != nil {
		publishedAt = item.PublishedAt.UTC().Format(time.RFC3339)
	}

	return types.NewsRecord{
		ID:          uuid.NewString(),
		Title:       item.Title,
		Summary:     Summarize(item.Description),
		Source:      meta.Name,
		SourceType:  meta.SourceType,
		Category:    Categorize(text),
		SubCategory: SubCategorize(text),
		PublishedAt: publishedAt,
		URL:         item.Link,
		Language:    "en",
		Tags:        ExtractTags(text),
		Impact:      AssessImpact(text),
		Insights:    GenerateInsight(text),
	}
}

// Categorize returns the topical category for lowercased item text.
func Categorize(text string) string {
	if label, ok := firstMatch(CategoryRules, text); ok {
		return label
	}
	return DefaultCategory
}

// SubCategorize returns the geographic label, or nil when none applies.
func SubCategorize(text string) *string {
	if label, ok := firstMatch(SubCategoryRules, text); ok {
		return &label
	}
	return nil
}

// AssessImpact returns the economic-impact tier for lowercased item text.
func AssessImpact(text string) types.Impact {
	if label, ok := firstMatch(ImpactRules, text); ok {
		return types.Impact(label)
	}
	return types.ImpactLow
}

// ExtractTags collects every matching tag in rule order, capped at MaxTags.
func ExtractTags(text string) []string {
	tags := []string{}
	for _, rule := range TagRules {
		if matchesAny(rule.Keywords, text) {
			tags = append(tags, rule.Label)
			if len(tags) == MaxTags {
				break
			}
		}
	}
	return tags
}

// GenerateInsight picks the interpretive sentence for lowercased item text.
func GenerateInsight(text string) string {
	if label, ok := firstMatch(InsightRules, text); ok {
		return label
	}
	return DefaultInsight
}

var htmlStripper = bluemonday.StrictPolicy()

// Summarize strips markup and entities from a raw description, trims
// whitespace and hard-cuts at 200 characters. The cut is not word-boundary
// aware; that matches the upstream behavior this service replaces.
func Summarize(description string) string {
	s := htmlStripper.Sanitize(description)
	s = html.UnescapeString(s)
	s = strings.TrimSpace(s)

	if len(s) > summaryLimit {
		s = s[:summaryLimit]
	}

	return s
}

func firstMatch(rules []Rule, text string) (string, bool) {
	for _, rule := range rules {
		if matchesAny(rule.Keywords, text) {
			return rule.Label, true
		}
	}
	return "", false
}

func matchesAny(keywords []string, text string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
