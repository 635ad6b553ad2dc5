package handlers

import (
	"net/http"
	"strings"
	"time"

	"kovil/internal/dashboard"
)

func (a *App) DashboardStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	overview, hit, err := a.Dashboard.Overview(r.Context(), rangeQuery(r))
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control", "private, max-age=120")
	w.Header().Set("X-Response-Time", time.Since(start).Round(time.Millisecond).String())
	a.json(w, http.StatusOK, toDashboardDTO(overview))
}

func (a *App) DashboardClearCache(w http.ResponseWriter, r *http.Request) {
	n := a.Dashboard.ClearCache()
	a.Logger.Info().Int("entries", n).Msg("dashboard cache cleared")
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "Dashboard cache cleared"})
}

func (a *App) DashboardExport(w http.ResponseWriter, r *http.Request) {
	q := rangeQuery(r)
	items, _, err := a.Dashboard.Donations(r.Context(), q)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	format := "csv"
	if strings.EqualFold(r.URL.Query().Get("format"), "xlsx") {
		format = "xlsx"
	}
	a.writeExport(w, r, format, dashboard.ExportFilename(q, format), items)
}

// AnalyticsDashboard keeps the old analytics URL working.
func (a *App) AnalyticsDashboard(w http.ResponseWriter, r *http.Request) {
	target := "/api/dashboard/stats"
	if raw := r.URL.RawQuery; raw != "" {
		target += "?" + raw
	}
	http.Redirect(w, r, target, http.StatusPermanentRedirect)
}
