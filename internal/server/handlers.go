package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hknews/internal/types"

	"github.com/go-chi/chi/v5"
)

const defaultLimit = 50

// envelope mirrors the response shape of the API this service replaces.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Status     string      `json:"status,omitempty"`
	Total      *int        `json:"total,omitempty"`
	Count      *int        `json:"count,omitempty"`
	LastUpdate *time.Time  `json:"lastUpdate,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func lastUpdateField(snapshot *types.Snapshot) *time.Time {
	if snapshot.Empty() {
		return nil
	}
	t := snapshot.LastUpdate
	return &t
}

func intPtr(v int) *int {
	return &v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Status: "ok"})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "API is working fine!"})
}

// newsFilter narrows the snapshot record list from query parameters.
type newsFilter struct {
	category    string
	subCategory string
	source      string
	sourceType  string
	language    string
	impact      string
}

func filterFromQuery(r *http.Request) newsFilter {
	q := r.URL.Query()
	return newsFilter{
		category:    strings.ToLower(q.Get("category")),
		subCategory: strings.ToLower(q.Get("subCategory")),
		source:      strings.ToLower(q.Get("source")),
		sourceType:  strings.ToLower(q.Get("sourceType")),
		language:    strings.ToLower(q.Get("language")),
		impact:      strings.ToLower(q.Get("economicImpact")),
	}
}

func (f newsFilter) match(record types.NewsRecord) bool {
	if f.category != "" && strings.ToLower(record.Category) != f.category {
		return false
	}
	if f.subCategory != "" {
		if record.SubCategory == nil || strings.ToLower(*record.SubCategory) != f.subCategory {
			return false
		}
	}
	if f.source != "" && !strings.Contains(strings.ToLower(record.Source), f.source) {
		return false
	}
	if f.sourceType != "" && record.SourceType != f.sourceType {
		return false
	}
	if f.language != "" && record.Language != f.language {
		return false
	}
	if f.impact != "" && string(record.Impact) != f.impact {
		return false
	}
	return true
}

func applyFilter(records []types.NewsRecord, filter newsFilter) []types.NewsRecord {
	out := make([]types.NewsRecord, 0, len(records))
	for _, record := range records {
		if filter.match(record) {
			out = append(out, record)
		}
	}
	return out
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return defaultLimit
	}
	return limit
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	snapshot := s.news.Snapshot()
	filtered := applyFilter(snapshot.Records, filterFromQuery(r))

	limit := parseLimit(r)
	limited := filtered
	if len(limited) > limit {
		limited = limited[:limit]
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Total:      intPtr(len(filtered)),
		Count:      intPtr(len(limited)),
		LastUpdate: lastUpdateField(snapshot),
		Data:       limited,
	})
}

func (s *Server) handleHighImpact(w http.ResponseWriter, r *http.Request) {
	snapshot := s.news.Snapshot()
	filtered := applyFilter(snapshot.Records, newsFilter{impact: string(types.ImpactHigh)})

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Count:      intPtr(len(filtered)),
		LastUpdate: lastUpdateField(snapshot),
		Data:       filtered,
	})
}

func (s *Server) handleDailyBriefing(w http.ResponseWriter, r *http.Request) {
	snapshot := s.news.Snapshot()

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Message:    "Full Hong Kong news briefing",
		Count:      intPtr(len(snapshot.Records)),
		LastUpdate: lastUpdateField(snapshot),
		Data:       snapshot.Records,
	})
}

func (s *Server) handleNewsByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snapshot := s.news.Snapshot()

	for _, record := range snapshot.Records {
		if record.ID == id {
			writeJSON(w, http.StatusOK, envelope{Success: true, Data: record})
			return
		}
	}

	writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "News not found"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snapshot := s.news.Snapshot()
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    distinct(snapshot.Records, func(record types.NewsRecord) string { return record.Category }),
	})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	snapshot := s.news.Snapshot()
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    distinct(snapshot.Records, func(record types.NewsRecord) string { return record.Source }),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := s.news.Snapshot()

	perSource := make(map[string]int)
	for _, record := range snapshot.Records {
		perSource[record.Source]++
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Status:     "running",
		Count:      intPtr(len(snapshot.Records)),
		LastUpdate: lastUpdateField(snapshot),
		Data:       perSource,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	slog.Info("manual refresh requested")

	count, err := s.news.Refresh(r.Context())
	if err != nil {
		slog.Error("manual refresh failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "News update failed",
		})
		return
	}

	snapshot := s.news.Snapshot()
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Message:    "News updated successfully",
		Count:      intPtr(count),
		LastUpdate: lastUpdateField(snapshot),
	})
}

// distinct collects unique field values preserving first-seen order.
func distinct(records []types.NewsRecord, field func(types.NewsRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, record := range records {
		value := field(record)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
