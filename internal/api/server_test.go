package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/config"
	"github.com/dgallion1/vitigest/internal/fetch"
	"github.com/dgallion1/vitigest/internal/record"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	domain   catalog.Domain
	category string
	year     *int
}

type fakeExtractor struct {
	result *record.Result
	agg    *record.Aggregate
	err    error
	calls  []call
}

func (f *fakeExtractor) Get(_ context.Context, d catalog.Domain, category string, year *int) (*record.Result, error) {
	f.calls = append(f.calls, call{d, category, year})
	if f.err != nil {
		return nil, f.err
	}
	if _, err := catalog.Lookup(d, category); d.HasCategories() && err != nil {
		return nil, err
	}
	return f.result, nil
}

func (f *fakeExtractor) All(_ context.Context, d catalog.Domain, year *int) (*record.Aggregate, error) {
	f.calls = append(f.calls, call{d, "", year})
	return f.agg, nil
}

func newTestServer(t *testing.T, ex Extractor, cfg config.Config, stats *fetch.LatencyStats) *Server {
	t.Helper()
	return NewServer(ex, stats, prometheus.NewRegistry(), nil, cfg)
}

func do(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, &fakeExtractor{}, config.Config{}, nil), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProduction_PassesYear(t *testing.T) {
	total := int64(10)
	ex := &fakeExtractor{result: &record.Result{Year: 2022, Total: &total}}
	rec := do(t, newTestServer(t, ex, config.Config{}, nil), "/api/production?year=2023")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"year":2022,"products":[],"total":10}`, rec.Body.String())
	require.Len(t, ex.calls, 1)
	assert.Equal(t, catalog.Production, ex.calls[0].domain)
	require.NotNil(t, ex.calls[0].year)
	assert.Equal(t, 2023, *ex.calls[0].year)
}

func TestCategoryRoute(t *testing.T) {
	ex := &fakeExtractor{result: &record.Result{Shape: record.Flat, Year: 2021, Category: "raisins"}}
	rec := do(t, newTestServer(t, ex, config.Config{}, nil), "/api/import/raisins")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "raisins", decode(t, rec)["category"])
	assert.Equal(t, call{catalog.Import, "raisins", nil}, ex.calls[0])
}

func TestErrorStatuses(t *testing.T) {
	testCases := []struct {
		name string
		path string
		err  error
		code int
	}{
		{"invalid category", "/api/export/raisins", nil, http.StatusBadRequest},
		{"fetch failure", "/api/commercialization", &fetch.FetchError{URL: "u", Attempts: 3, Err: errors.New("down")}, http.StatusBadGateway},
		{"structure failure", "/api/production", errors.New("page structure: header: missing"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ex := &fakeExtractor{err: tc.err, result: &record.Result{}}
			rec := do(t, newTestServer(t, ex, config.Config{}, nil), tc.path)
			assert.Equal(t, tc.code, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestInvalidYear(t *testing.T) {
	for _, q := range []string{"abc", "0", "-5", "2020.5"} {
		ex := &fakeExtractor{}
		srv := newTestServer(t, ex, config.Config{}, nil)

		for _, path := range []string{"/api/production?year=", "/api/import?year=", "/api/import/raisins?year="} {
			rec := do(t, srv, path+q)
			assert.Equal(t, http.StatusBadRequest, rec.Code, path+q)
		}
		assert.Empty(t, ex.calls)
	}
}

func TestAggregateAlwaysOK(t *testing.T) {
	year := 2022
	ex := &fakeExtractor{agg: &record.Aggregate{
		Year: &year,
		Categories: []record.Outcome{
			{Category: "viniferas", Result: &record.Result{Year: 2022, RowsLabel: "varieties", ChildLabel: "subvarieties"}},
			{Category: "american_hybrids", Err: &record.ErrorRecord{Error: "fetch failed"}},
		},
	}}
	rec := do(t, newTestServer(t, ex, config.Config{}, nil), "/api/processing?year=2022")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Index(rec.Body.String(), "viniferas") < strings.Index(rec.Body.String(), "american_hybrids"))

	body := decode(t, rec)
	assert.EqualValues(t, 2022, body["year"])
	cats := body["categories"].(map[string]any)
	assert.Equal(t, map[string]any{"error": "fetch failed"}, cats["american_hybrids"])
}

func TestAuth(t *testing.T) {
	ex := &fakeExtractor{result: &record.Result{Year: 2020}}
	srv := newTestServer(t, ex, config.Config{APIKey: "secret"}, nil)

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, "/api/production").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, "/api/production", "Authorization", "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, "/api/production", "Authorization", "Bearer secret").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, "/health").Code)
	assert.Len(t, ex.calls, 1)
}

func TestIndexAndDocs(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{}, config.Config{}, nil)

	rec := do(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "vitigest", body["name"])
	eps := body["endpoints"].([]any)
	assert.Len(t, eps, 8)

	rec = do(t, srv, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")
	assert.Contains(t, rec.Body.String(), "/api/export/{category}")
	assert.Contains(t, rec.Body.String(), "table_wines, sparkling_wines, fresh_grapes, raisins, grape_juice")
}

func TestFetchStats(t *testing.T) {
	rec := do(t, newTestServer(t, &fakeExtractor{}, config.Config{}, nil), "/api/stats/fetch")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	stats := fetch.NewLatencyStats(time.Hour)
	stats.Record(120, true)
	rec = do(t, newTestServer(t, &fakeExtractor{}, config.Config{BaseURL: "http://up"}, stats), "/api/stats/fetch")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "http://up", body["upstream"])
	assert.EqualValues(t, 1, body["stats"].(map[string]any)["attempts"])
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := fetch.NewMetrics(reg)
	m.Exhausted.Inc()

	srv := NewServer(&fakeExtractor{}, nil, reg, nil, config.Config{})
	rec := do(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vitigest_fetch_exhausted_total 1")
}
