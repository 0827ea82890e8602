package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hknews/internal/cache"
	"hknews/internal/types"

	"github.com/gorilla/feeds"
)

const (
	feedTypeRSS  = "rss"
	feedTypeAtom = "atom"

	feedItemLimit = 50
	feedCacheTTL  = 10 * time.Minute
)

// feedCacheKey ties a rendered document to the snapshot it was built from,
// so a refresh naturally invalidates stale entries.
type feedCacheKey struct {
	Type       string
	LastUpdate int64
}

func newFeedCache() *cache.Cache[feedCacheKey, string] {
	return cache.New[feedCacheKey, string](cache.Config{TTL: feedCacheTTL}, func(k feedCacheKey) string {
		return fmt.Sprintf("%s:%d", k.Type, k.LastUpdate)
	})
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, feedTypeRSS, "application/rss+xml; charset=utf-8")
}

func (s *Server) handleAtomFeed(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, feedTypeAtom, "application/atom+xml; charset=utf-8")
}

func (s *Server) serveFeed(w http.ResponseWriter, feedType, contentType string) {
	snapshot := s.news.Snapshot()
	key := feedCacheKey{Type: feedType, LastUpdate: snapshot.LastUpdate.Unix()}

	if doc, ok := s.feedCache.Get(key); ok {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, doc)
		return
	}

	feed := buildFeed(snapshot)

	var doc string
	var err error
	switch feedType {
	case feedTypeAtom:
		doc, err = feed.ToAtom()
	default:
		doc, err = feed.ToRss()
	}
	if err != nil {
		slog.Error("feed render failed", "type", feedType, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.feedCache.Set(key, doc)

	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, doc)
}

func buildFeed(snapshot *types.Snapshot) *feeds.Feed {
	records := snapshot.Records
	if len(records) > feedItemLimit {
		records = records[:feedItemLimit]
	}

	items := make([]*feeds.Item, 0, len(records))
	for _, record := range records {
		items = append(items, &feeds.Item{
			Id:          record.ID,
			Title:       record.Title,
			Link:        &feeds.Link{Href: record.URL},
			Description: record.Summary,
			Author:      &feeds.Author{Name: record.Source},
			Created:     record.PublishedTime(),
		})
	}

	return &feeds.Feed{
		Title:       "Hong Kong Economic News",
		Link:        &feeds.Link{Href: "http://localhost/"},
		Description: "Aggregated Hong Kong and Greater China economic news",
		Created:     snapshot.LastUpdate,
		Items:       items,
	}
}
