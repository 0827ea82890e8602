package aggregator_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hknews/internal/aggregator"
	"hknews/internal/types"

	"github.com/stretchr/testify/require"
)

func rssDocument(entries ...[3]string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test</title>`
	for _, e := range entries {
		body += fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>`, e[0], e[1], e[2])
	}
	return body + `</channel></rss>`
}

func serveRSS(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRefreshAggregatesAllGroups(t *testing.T) {
	hk := serveRSS(t, rssDocument(
		[3]string{"Hong Kong market rallies", "https://example.com/hk1", "Mon, 03 Mar 2025 08:00:00 GMT"},
		[3]string{"Trade talks resume", "https://example.com/hk2", "Mon, 03 Mar 2025 07:00:00 GMT"},
	))
	global := serveRSS(t, rssDocument(
		[3]string{"Global growth outlook", "https://example.com/g1", "Mon, 03 Mar 2025 09:00:00 GMT"},
	))

	agg := aggregator.New([]aggregator.Group{
		{Name: "hk", SourceType: "hk_media", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "HKFP", URL: hk.URL}}},
		{Name: "global", SourceType: "global", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "BBC Business", URL: global.URL}}},
	})

	require.True(t, agg.Snapshot().Empty())

	count, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)

	snapshot := agg.Snapshot()
	require.False(t, snapshot.Empty())
	require.Len(t, snapshot.Records, 3)
	require.False(t, snapshot.LastUpdate.IsZero())

	// Newest first across groups.
	require.Equal(t, "Global growth outlook", snapshot.Records[0].Title)
	require.Equal(t, "Hong Kong market rallies", snapshot.Records[1].Title)
	require.Equal(t, "Trade talks resume", snapshot.Records[2].Title)

	// Source metadata carried through from the group.
	require.Equal(t, "global", snapshot.Records[0].SourceType)
	require.Equal(t, "BBC Business", snapshot.Records[0].Source)
}

func TestRefreshSurvivesFeedTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	ok := serveRSS(t, rssDocument(
		[3]string{"Story one", "https://example.com/1", "Mon, 03 Mar 2025 08:00:00 GMT"},
		[3]string{"Story two", "https://example.com/2", "Mon, 03 Mar 2025 07:00:00 GMT"},
	))

	agg := aggregator.New([]aggregator.Group{
		{Name: "slow", SourceType: "global", Timeout: 30 * time.Millisecond,
			Feeds: []aggregator.Feed{{Name: "Slow", URL: slow.URL}}},
		{Name: "ok", SourceType: "global", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "OK", URL: ok.URL}}},
	})

	count, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestRefreshAllFeedsFailing(t *testing.T) {
	agg := aggregator.New([]aggregator.Group{
		{Name: "dead", SourceType: "global", Timeout: time.Second,
			Feeds: []aggregator.Feed{{Name: "Dead", URL: "http://127.0.0.1:1/feed"}}},
	})

	count, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)

	// The swap still happens: readers see an empty but fresh snapshot.
	require.False(t, agg.Snapshot().Empty())
	require.Empty(t, agg.Snapshot().Records)
}

func TestRefreshDedupesAcrossGroups(t *testing.T) {
	shared := "https://example.com/shared"
	first := serveRSS(t, rssDocument(
		[3]string{"Same article", shared, "Mon, 03 Mar 2025 08:00:00 GMT"},
	))
	second := serveRSS(t, rssDocument(
		[3]string{"Same article syndicated", shared, "Mon, 03 Mar 2025 08:30:00 GMT"},
	))

	agg := aggregator.New([]aggregator.Group{
		{Name: "first", SourceType: "hk_media", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "SCMP", URL: first.URL}}},
		{Name: "second", SourceType: "global", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "Reuters", URL: second.URL}}},
	})

	count, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// First occurrence in group-concatenation order wins.
	record := agg.Snapshot().Records[0]
	require.Equal(t, "Same article", record.Title)
	require.Equal(t, "SCMP", record.Source)
}

func newRecord(url, publishedAt string) types.NewsRecord {
	return types.NewsRecord{
		ID:          url,
		URL:         url,
		PublishedAt: publishedAt,
		Category:    "general",
		Impact:      types.ImpactLow,
	}
}

func TestDedupe(t *testing.T) {
	records := []types.NewsRecord{
		newRecord("https://a", "2025-03-03T08:00:00Z"),
		newRecord("https://b", "2025-03-03T07:00:00Z"),
		newRecord("https://a", "2025-03-03T09:00:00Z"),
	}

	deduped := aggregator.Dedupe(records)
	require.Len(t, deduped, 2)
	require.Equal(t, "https://a", deduped[0].URL)
	require.Equal(t, "2025-03-03T08:00:00Z", deduped[0].PublishedAt, "stable dedupe keeps the first occurrence")

	// Idempotent: a second pass changes nothing.
	require.Equal(t, deduped, aggregator.Dedupe(deduped))

	seen := map[string]bool{}
	for _, record := range deduped {
		require.False(t, seen[record.URL])
		seen[record.URL] = true
	}
}

func TestSortByPublished(t *testing.T) {
	records := []types.NewsRecord{
		newRecord("https://old", "2025-03-01T00:00:00Z"),
		newRecord("https://undated-1", ""),
		newRecord("https://new", "2025-03-03T00:00:00Z"),
		newRecord("https://undated-2", ""),
		newRecord("https://mid", "2025-03-02T00:00:00Z"),
	}

	aggregator.SortByPublished(records)

	require.Equal(t, "https://new", records[0].URL)
	require.Equal(t, "https://mid", records[1].URL)
	require.Equal(t, "https://old", records[2].URL)

	// Invalid dates sort last, keeping their relative order.
	require.Equal(t, "https://undated-1", records[3].URL)
	require.Equal(t, "https://undated-2", records[4].URL)

	for i := 0; i+1 < len(records); i++ {
		if records[i].HasValidDate() && records[i+1].HasValidDate() {
			require.False(t, records[i].PublishedTime().Before(records[i+1].PublishedTime()))
		}
	}
}

func TestSnapshotInvariants(t *testing.T) {
	doc := rssDocument(
		[3]string{"China trade policy boosts Hong Kong exports", "https://example.com/x1", "Mon, 03 Mar 2025 08:00:00 GMT"},
		[3]string{"A major billion dollar crisis unfolds in markets", "https://example.com/x2", "Mon, 03 Mar 2025 07:00:00 GMT"},
	)
	ts := serveRSS(t, doc)

	agg := aggregator.New([]aggregator.Group{
		{Name: "g", SourceType: "global", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "Feed", URL: ts.URL}}},
	})

	_, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, record := range agg.Snapshot().Records {
		require.NotEmpty(t, record.Category)
		require.NotEmpty(t, record.Impact)
		require.LessOrEqual(t, len(record.Tags), 5)
		require.False(t, ids[record.ID], "ids must be unique within a snapshot")
		ids[record.ID] = true
	}
}
