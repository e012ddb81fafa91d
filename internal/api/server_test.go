package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

func scenario() []family.Person {
	return []family.Person{
		{ID: "A", SpouseIDs: []string{"B"}, Width: 100},
		{ID: "B", SpouseIDs: []string{"A"}, Width: 100},
		{ID: "C", FatherID: "A", MotherID: "B", SpouseIDs: []string{"E"}, Width: 100},
		{ID: "D", FatherID: "A", MotherID: "B", Width: 100},
		{ID: "E", SpouseIDs: []string{"C"}, Width: 100},
		{ID: "F", FatherID: "C", MotherID: "E", Width: 100},
	}
}

func newTestServer(t *testing.T, cfg config.Server) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), logger, cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorBody {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, config.Server{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if want := buildinfo.Get(); body.Version != want.Version || body.Commit != want.Commit {
		t.Errorf("build = %s@%s, want %s@%s", body.Version, body.Commit, want.Version, want.Commit)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, config.Server{})

	resp := post(t, ts.URL+"/v1/layout", LayoutRequest{
		Persons: scenario(),
		Options: map[string]any{"horizontalGridSize": 10, "relativeAttraction": 0.25},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /v1/layout status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Persons) != 6 {
		t.Fatalf("persons = %d, want 6", len(body.Persons))
	}
	if body.Layout.VizType != "family" {
		t.Errorf("viz type = %q, want family", body.Layout.VizType)
	}

	// Children sit one row below their parents.
	y := map[string]float64{}
	for _, p := range body.Persons {
		y[p.ID] = p.Y
	}
	if y["C"] <= y["A"] || y["F"] <= y["C"] {
		t.Errorf("rows not ordered by generation: A=%v C=%v F=%v", y["A"], y["C"], y["F"])
	}
	if y["A"] != y["B"] {
		t.Errorf("spouses on different rows: A=%v B=%v", y["A"], y["B"])
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t, config.Server{})

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{"persons": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"people": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty id", `{"persons": [{"id": ""}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown option", `{"persons": [], "options": {"gridSize": 10}}`, http.StatusBadRequest, errors.ErrCodeInvalidOptions},
		{"attraction out of range", `{"persons": [], "options": {"relativeAttraction": 2}}`, http.StatusBadRequest, errors.ErrCodeInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/layout", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decodeError(t, resp); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestLayoutBodyLimit(t *testing.T) {
	ts := newTestServer(t, config.Server{MaxBodyBytes: 64})

	resp := post(t, ts.URL+"/v1/layout", LayoutRequest{Persons: scenario()})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHighlight(t *testing.T) {
	ts := newTestServer(t, config.Server{})

	resp := post(t, ts.URL+"/v1/highlight", HighlightRequest{
		LayoutRequest: LayoutRequest{Persons: scenario()},
		Root:          "F",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /v1/highlight status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body HighlightResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Bloodline.Root != "F" {
		t.Errorf("root = %q, want F", body.Bloodline.Root)
	}

	members := map[string]bool{}
	for _, id := range body.Bloodline.Persons {
		members[id] = true
	}
	for _, id := range []string{"F", "C", "E", "A", "B"} {
		if !members[id] {
			t.Errorf("bloodline missing %s", id)
		}
	}
	if members["D"] {
		t.Error("bloodline should not contain sibling D")
	}
	if body.Layout.Root != "F" {
		t.Errorf("layout root = %q, want F", body.Layout.Root)
	}
}

func TestHighlightErrors(t *testing.T) {
	ts := newTestServer(t, config.Server{})

	tests := []struct {
		name   string
		root   string
		status int
		code   errors.Code
	}{
		{"missing root", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown root", "nobody", http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/highlight", HighlightRequest{
				LayoutRequest: LayoutRequest{Persons: scenario()},
				Root:          tt.root,
			})
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decodeError(t, resp); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, config.Server{})

	resp := post(t, ts.URL+"/v1/render", RenderRequest{
		LayoutRequest: LayoutRequest{Persons: scenario()},
		Highlight:     "F",
		Format:        pipeline.FormatDOT,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /v1/render status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q, want text/vnd.graphviz", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("digraph G {")) {
		t.Errorf("body should be DOT, got %.20q", data)
	}

	bad := post(t, ts.URL+"/v1/render", RenderRequest{LayoutRequest: LayoutRequest{Persons: scenario()}, Format: "gif"})
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", bad.StatusCode, http.StatusBadRequest)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidOptions, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeCanceled, http.StatusServiceUnavailable},
		{errors.ErrCodeCache, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
