package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (a *App) DonorsSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	community := strings.TrimSpace(r.URL.Query().Get("community"))
	if query == "" && (community == "" || strings.EqualFold(community, "all")) {
		a.error(w, http.StatusBadRequest, "bad_request", "Search query is required")
		return
	}
	donors, err := a.Donors.Search(r.Context(), query, community)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	out := make([]donorDTO, 0, len(donors))
	for _, d := range donors {
		out = append(out, toDonorDTO(d))
	}
	a.json(w, http.StatusOK, out)
}

func (a *App) DonorsGet(w http.ResponseWriter, r *http.Request) {
	donor, err := a.Donors.GetByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		a.fail(w, r, err, "Donor not found")
		return
	}
	a.json(w, http.StatusOK, toDonorDTO(*donor))
}
