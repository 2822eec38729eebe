package server

import (
	"net/http"
	"strconv"

	"github.com/resolveapp/resolve/internal/middleware"
)

func (s *Server) handleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.balances.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceJSON{
		TotalOwed:      summary.TotalOwed,
		TotalOwedToYou: summary.TotalOwedToYou,
		NetBalance:     summary.NetBalance,
	})
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	items, err := s.activity.Recent(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]activityJSON, len(items))
	for i, item := range items {
		out[i] = toActivityJSON(item)
	}
	writeJSON(w, http.StatusOK, out)
}
