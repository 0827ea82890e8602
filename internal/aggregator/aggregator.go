// Package aggregator runs the refresh cycle: fetch, parse and enrich every
// configured feed, merge the results, and publish them as an atomically
// swapped in-memory snapshot.
package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"hknews/internal/config"
	"hknews/internal/enrich"
	"hknews/internal/feed"
	"hknews/internal/types"
)

// Feed is a single syndication endpoint within a group.
type Feed struct {
	Name string
	URL  string
}

// Group is a cluster of feeds sharing a source type and fetch timeout.
// Groups fetch independently and concurrently during a refresh.
type Group struct {
	Name       string
	SourceType string
	Timeout    time.Duration
	Feeds      []Feed
}

// Aggregator owns the process-wide snapshot. Refresh is the only writer;
// readers go through Snapshot, which never blocks.
type Aggregator struct {
	fetcher  *feed.Fetcher
	parser   *feed.Parser
	groups   []Group
	snapshot atomic.Pointer[types.Snapshot]
	now      func() time.Time
}

func New(groups []Group) *Aggregator {
	a := &Aggregator{
		fetcher: feed.NewFetcher(),
		parser:  feed.NewParser(),
		groups:  groups,
		now:     time.Now,
	}
	a.snapshot.Store(&types.Snapshot{Records: []types.NewsRecord{}})
	return a
}

// FromConfig builds an aggregator from the configured source groups.
func FromConfig(cfg *config.Config) *Aggregator {
	groups := make([]Group, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		group := Group{
			Name:       g.Name,
			SourceType: g.SourceType,
			Timeout:    g.TimeoutDuration(),
		}
		for _, f := range g.Feeds {
			group.Feeds = append(group.Feeds, Feed{Name: f.Name, URL: f.URL})
		}
		groups = append(groups, group)
	}
	return New(groups)
}

// Snapshot returns the current snapshot. Before the first successful
// refresh this is an empty record list with a zero LastUpdate.
func (a *Aggregator) Snapshot() *types.Snapshot {
	return a.snapshot.Load()
}

// Refresh runs one full aggregation cycle and swaps in the new snapshot,
// returning the record count. Every group runs concurrently; per-feed and
// per-group failures are logged and contribute zero items, so Refresh does
// not fail when feeds do. Only the final swap is visible to readers.
func (a *Aggregator) Refresh(ctx context.Context) (int, error) {
	slog.Info("refresh starting", "groups", len(a.groups))

	results := make([][]types.NewsRecord, len(a.groups))

	var wg sync.WaitGroup
	for i, group := range a.groups {
		wg.Add(1)
		go func(idx int, g Group) {
			defer wg.Done()
			results[idx] = a.collectGroup(ctx, g)
		}(i, group)
	}
	wg.Wait()

	var merged []types.NewsRecord
	for i, group := range a.groups {
		slog.Info("group collected", "group", group.Name, "records", len(results[i]))
		merged = append(merged, results[i]...)
	}

	records := Dedupe(merged)
	SortByPublished(records)

	snapshot := &types.Snapshot{
		Records:    records,
		LastUpdate: a.now(),
	}
	a.snapshot.Store(snapshot)

	slog.Info("refresh complete", "records", len(records), "before_dedupe", len(merged))
	return len(records), nil
}

// collectGroup fetches, parses and enriches every feed in the group in
// configured order. A failing feed is logged and skipped.
func (a *Aggregator) collectGroup(ctx context.Context, group Group) []types.NewsRecord {
	var records []types.NewsRecord

	for _, f := range group.Feeds {
		data, err := a.fetcher.Fetch(ctx, f.URL, group.Timeout)
		if err != nil {
			slog.Error("feed fetch failed", "group", group.Name, "feed", f.Name, "url", f.URL, "error", err)
			continue
		}

		items, err := a.parser.Parse(f.Name, data)
		if err != nil {
			slog.Error("feed parse failed", "group", group.Name, "feed", f.Name, "url", f.URL, "error", err)
			continue
		}

		meta := enrich.SourceMeta{Name: f.Name, SourceType: group.SourceType}
		for _, item := range items {
			records = append(records, enrich.Enrich(item, meta))
		}
	}

	return records
}

// Dedupe removes records sharing a URL, keeping the first occurrence in
// input order. Deduplication is by exact string match: the same article
// under differing query parameters survives as separate records.
func Dedupe(records []types.NewsRecord) []types.NewsRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.NewsRecord, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.URL]; ok {
			continue
		}
		seen[record.URL] = struct{}{}
		out = append(out, record)
	}
	return out
}

// SortByPublished orders records newest first. Records without a valid
// publish date sort after all dated records; ties keep their input order.
func SortByPublished(records []types.NewsRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		vi, vj := records[i].HasValidDate(), records[j].HasValidDate()
		if vi != vj {
			return vi
		}
		if !vi {
			return false
		}
		return records[i].PublishedTime().After(records[j].PublishedTime())
	})
}
