package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/fetch"
	"github.com/go-chi/chi/v5"
)

// handleResult serves a single extraction. Domains with categories read
// the key from the {category} path segment.
func (s *Server) handleResult(d catalog.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := parseYear(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		category := chi.URLParam(r, "category")
		res, err := s.scraper.Get(r.Context(), d, category, year)
		if err != nil {
			code := errorStatus(err)
			if code >= http.StatusInternalServerError {
				s.log.Error("extraction failed", "domain", d, "category", category, "error", err)
			}
			jsonError(w, err.Error(), code)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// handleAggregate serves every category of d. Per-category failures are
// reported in the body, so the status is 200 whenever the year is valid.
func (s *Server) handleAggregate(d catalog.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := parseYear(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		agg, err := s.scraper.All(r.Context(), d, year)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, agg)
	}
}

func parseYear(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return nil, fmt.Errorf("invalid year %q: must be a positive integer", raw)
	}
	return &year, nil
}

func errorStatus(err error) int {
	var invalid *catalog.InvalidCategoryError
	var fetchErr *fetch.FetchError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
