package types

import (
	"time"
)

// Impact is the coarse economic-impact tier assigned to every record.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// RawItem is a single entry from a parsed feed document, before enrichment.
// PublishedAt is nil when the feed carried no parseable publish date; the
// raw Published string is kept alongside for diagnostics.
type RawItem struct {
	Title       string
	Description string
	Link        string
	Published   string
	PublishedAt *time.Time
}

// NewsRecord is the unit of output served by the read API.
type NewsRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	SourceType  string   `json:"sourceType"`
	Category    string   `json:"category"`
	SubCategory *string  `json:"subCategory"`
	PublishedAt string   `json:"publishedAt"`
	URL         string   `json:"url"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	Impact      Impact   `json:"economicImpact"`
	Insights    string   `json:"insights"`
}

// HasValidDate reports whether the record carries a parseable publish date.
// Records with an unparseable date keep an empty PublishedAt and sort last.
func (r NewsRecord) HasValidDate() bool {
	return r.PublishedAt != ""
}

// PublishedTime parses the record's publish date. The zero time is returned
// for records without a valid date.
func (r NewsRecord) PublishedTime() time.Time {
	if r.PublishedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, r.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Snapshot is the complete aggregated news list plus the wall-clock time of
// the refresh that produced it. A snapshot is immutable once published; the
// aggregator replaces it wholesale on every successful refresh.
type Snapshot struct {
	Records    []NewsRecord
	LastUpdate time.Time
}

// Empty reports whether no refresh has ever completed.
func (s *Snapshot) Empty() bool {
	return s == nil || s.LastUpdate.IsZero()
}
