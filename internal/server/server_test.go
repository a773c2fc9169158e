// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aclements/go-foodfacts/dashboard"
	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func record(country, grade string, nova, sugars, additives, score float64) nutrition.Record {
	return nutrition.Record{
		CountryCode:    country,
		Grade:          grade,
		Nova:           nutrition.Some(nova),
		Sugars:         nutrition.Some(sugars),
		Additives:      nutrition.Some(additives),
		NutritionScore: nutrition.Some(score),
	}
}

func newServer(t *testing.T) *Server {
	t.Helper()
	data, err := nutrition.NewDataset("test", []nutrition.Record{
		record("us", "A", 1, 2, 0, -1),
		record("us", "B", 2, 4, 1, 3),
		record("fr", "A", 4, 8, 3, 10),
		record("de", "E", 4, 30, 5, 20),
	})
	require.NoError(t, err)
	d, err := dashboard.New(data)
	require.NoError(t, err)
	return New(d, zap.NewNop(), Options{AllowOrigins: []string{"http://localhost:3000"}})
}

type envelope struct {
	Message         string          `json:"message"`
	Data            json.RawMessage `json:"data"`
	Error           bool            `json:"error"`
	RequestID       string          `json:"request_id"`
	RequestedEntity string          `json:"requested_entity"`
}

func get(t *testing.T, s *Server, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body)
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct{ Records int }
	env := decode(t, w, &data)
	assert.Equal(t, 4, data.Records)
	assert.Equal(t, "GET /health", env.RequestedEntity)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))
}

func TestRequestID(t *testing.T) {
	s := newServer(t)
	const id = "0b9f4a6c-8f0e-4c1f-9a61-6f2d3b8e2c11"
	w := get(t, s, "/health", "X-Request-ID", id)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))

	// Malformed IDs are replaced.
	w = get(t, s, "/health", "X-Request-ID", "not a uuid\n")
	assert.NotEqual(t, "not a uuid\n", w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/api/v1/panels", "Origin", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(t, s, "/api/v1/panels", "Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFacets(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/api/v1/facets")
	require.Equal(t, http.StatusOK, w.Code)

	var o dashboard.Options
	decode(t, w, &o)
	assert.Equal(t, []dashboard.Option{
		{Label: "United States", Value: "us"},
		{Label: "France", Value: "fr"},
		{Label: "Germany", Value: "de"},
	}, o.Countries)
	assert.Equal(t, []string{"us", "fr", "de"}, o.Default.Countries)
	assert.Equal(t, nutrition.FullRange, o.Nova)
}

func TestPanels(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/api/v1/panels")
	require.Equal(t, http.StatusOK, w.Code)

	var specs []dashboard.PanelSpec
	decode(t, w, &specs)
	assert.Len(t, specs, len(dashboard.DefaultPanels()))
	assert.Equal(t, "grades", specs[0].ID)
}

func TestCharts(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/api/v1/charts?countries=us,fr&grades=A&grades=B&nova=1,4")
	require.Equal(t, http.StatusOK, w.Code)

	var charts []dashboard.Chart
	decode(t, w, &charts)
	require.Len(t, charts, len(dashboard.DefaultPanels()))
	for i, p := range dashboard.DefaultPanels() {
		assert.Equal(t, p.ID, charts[i].ID)
	}
}

func TestChart(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/api/v1/charts/grades?countries=us")
	require.Equal(t, http.StatusOK, w.Code)

	var c dashboard.Chart
	decode(t, w, &c)
	assert.Equal(t, "grades", c.ID)
	var keys [][]string
	for _, r := range c.Rows {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, [][]string{{"United States", "A"}, {"United States", "B"}}, keys)

	// A present but empty parameter selects nothing.
	w = get(t, s, "/api/v1/charts/grades?countries=")
	require.Equal(t, http.StatusOK, w.Code)
	c = dashboard.Chart{}
	decode(t, w, &c)
	assert.Empty(t, c.Rows)
	assert.Equal(t, dashboard.EmptyMessage, c.Message)
}

func TestChartSVG(t *testing.T) {
	s := newServer(t)
	for _, p := range dashboard.DefaultPanels() {
		w := get(t, s, "/api/v1/charts/"+p.ID+"/svg?width=640&height=480")
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", p.ID, w.Body)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<svg", p.ID)
	}
}

func TestErrors(t *testing.T) {
	s := newServer(t)
	for _, tt := range []struct {
		target string
		status int
	}{
		{"/api/v1/charts/nope", http.StatusNotFound},
		{"/api/v1/charts/nope/svg", http.StatusNotFound},
		{"/api/v1/charts?nova=3,1", http.StatusBadRequest},
		{"/api/v1/charts?nova=0,4", http.StatusBadRequest},
		{"/api/v1/charts?nova=x", http.StatusBadRequest},
		{"/api/v1/charts/grades?nova_low=two", http.StatusBadRequest},
		{"/api/v1/charts/grades?nova_high=5", http.StatusBadRequest},
		{"/api/v1/charts/grades/svg?width=-1", http.StatusBadRequest},
		{"/api/v1/charts/grades/svg?height=tall", http.StatusBadRequest},
	} {
		w := get(t, s, tt.target)
		assert.Equal(t, tt.status, w.Code, tt.target)
		env := decode(t, w, nil)
		assert.True(t, env.Error, tt.target)
		assert.NotEmpty(t, env.Message, tt.target)
	}
}

func TestParseSelection(t *testing.T) {
	def := nutrition.Selection{
		Countries: []string{"us"},
		Grades:    []string{"A", "B"},
		Nova:      nutrition.FullRange,
	}
	for _, tt := range []struct {
		query string
		want  nutrition.Selection
	}{
		{"", def},
		{"countries=FR,%20de", nutrition.Selection{Countries: []string{"fr", "de"}, Grades: def.Grades, Nova: def.Nova}},
		{"countries=&grades=c", nutrition.Selection{Countries: []string{}, Grades: []string{"C"}, Nova: def.Nova}},
		{"nova=2,3", nutrition.Selection{Countries: def.Countries, Grades: def.Grades, Nova: nutrition.Range{Low: 2, High: 3}}},
		{"nova_high=2", nutrition.Selection{Countries: def.Countries, Grades: def.Grades, Nova: nutrition.Range{Low: 1, High: 2}}},
	} {
		q, err := url.ParseQuery(tt.query)
		require.NoError(t, err)
		got, err := parseSelection(q, def)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}

	q, _ := url.ParseQuery("nova=4,1")
	_, err := parseSelection(q, def)
	var selErr *nutrition.InvalidSelectionError
	assert.True(t, errors.As(err, &selErr), "got %v", err)
}

func TestServe(t *testing.T) {
	s := newServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `"records":4`), "body: %s", body)

	cancel()
	require.NoError(t, <-done)
}
