package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/searchkit/ctxutil"
	"github.com/ncobase/searchkit/data/config"
	"github.com/ncobase/searchkit/data/metrics"
	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/ecode"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubBackend serves n documents with ids "0".."n-1" and a single cursor.
type stubBackend struct {
	mu      sync.Mutex
	n       int
	down    bool
	index   string
	query   search.Query
	cursor  int
	size    int
	cleared int
}

func (s *stubBackend) Type() search.Engine { return search.Elasticsearch }

func (s *stubBackend) Ping(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.down
}

func (s *stubBackend) page(from, size int) []*search.Hit {
	hits := []*search.Hit{}
	for i := from; i < from+size && i < s.n; i++ {
		hits = append(hits, &search.Hit{ID: strconv.Itoa(i), Source: map[string]any{"n": i}})
	}
	return hits
}

func (s *stubBackend) Search(_ context.Context, index string, body search.Query) (*search.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index, s.query = index, body
	from, size := num(body["from"], 0), num(body["size"], 10)
	return &search.SearchResponse{Total: int64(s.n), Hits: s.page(from, size)}, nil
}

func (s *stubBackend) OpenScroll(_ context.Context, index string, _ search.Query, _ time.Duration, size int) (*search.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index, s.size, s.cursor = index, size, size
	return &search.SearchResponse{Total: int64(s.n), Hits: s.page(0, size), ScrollID: "c1"}, nil
}

func (s *stubBackend) Scroll(context.Context, string, time.Duration) (*search.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hits := s.page(s.cursor, s.size)
	s.cursor += s.size
	return &search.SearchResponse{Total: int64(s.n), Hits: hits, ScrollID: "c1"}, nil
}

func (s *stubBackend) ClearScroll(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	return nil
}

func (s *stubBackend) Count(context.Context, string, search.Query) (int64, error) {
	return int64(s.n), nil
}

func (s *stubBackend) IndexExists(context.Context, string) (bool, error) { return true, nil }

func (s *stubBackend) CreateIndex(context.Context, string, map[string]any) error { return nil }

func (s *stubBackend) IndexDocument(context.Context, string, string, map[string]any, bool) (*search.WriteResult, error) {
	return &search.WriteResult{Result: "created", Successful: 1}, nil
}

func (s *stubBackend) DocumentExists(context.Context, string, string) (bool, error) {
	return true, nil
}

func (s *stubBackend) UpdateDocument(context.Context, string, string, map[string]any, bool) (*search.WriteResult, error) {
	return &search.WriteResult{Result: "updated", Successful: 1}, nil
}

func (s *stubBackend) DeleteDocument(context.Context, string, string, bool) (*search.WriteResult, error) {
	return &search.WriteResult{Result: "deleted", Successful: 1}, nil
}

func (s *stubBackend) DeleteByQuery(context.Context, string, search.Query, bool) (int64, error) {
	return 0, nil
}

func num(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

func testHandler(b *stubBackend, opts ...Option) *gin.Engine {
	cfg := config.DefaultSearch()
	cfg.IndexPrefix = "app"
	cfg.WindowLimit = 5
	return New(b, cfg, opts...).Engine()
}

func do(e *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

type resultBody struct {
	Data  []search.Hit `json:"data"`
	Total int64        `json:"total"`
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) resultBody {
	t.Helper()
	var r resultBody
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return r
}

func ids(hits []search.Hit) string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return strings.Join(out, ",")
}

func TestSearch(t *testing.T) {
	b := &stubBackend{n: 12}
	e := testHandler(b)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"plain", "/docs/_search", "0,1,2,3,4,5,6,7,8,9"},
		{"window", "/docs/_search?offset=1&limit=3", "1,2,3"},
		{"scroll", "/docs/_search?offset=6&limit=2", "6,7"},
		{"limit defaults to window", "/docs/_search?offset=0", "0,1,2,3,4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(e, http.MethodPost, tt.target, `{"query":{"match_all":{}}}`)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			r := decodeResult(t, w)
			if got := ids(r.Data); got != tt.want {
				t.Errorf("expected ids %s, got %s", tt.want, got)
			}
			if r.Total != 12 {
				t.Errorf("expected total 12, got %d", r.Total)
			}
		})
	}

	if b.index != "app-docs" {
		t.Errorf("expected prefixed index app-docs, got %s", b.index)
	}
}

func TestSearchKeepsLargeIntegers(t *testing.T) {
	b := &stubBackend{n: 1}
	e := testHandler(b)

	w := do(e, http.MethodPost, "/docs/_search", `{"query":{"term":{"id":9007199254740993}}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	b.mu.Lock()
	got, err := json.Marshal(b.query["query"])
	b.mu.Unlock()
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"term":{"id":9007199254740993}}`; string(got) != want {
		t.Errorf("query reached the backend as %s, want %s", got, want)
	}
}

func TestSearchBadRequest(t *testing.T) {
	e := testHandler(&stubBackend{n: 3})

	for _, target := range []string{
		"/docs/_search?offset=-1&limit=2",
		"/docs/_search?limit=abc",
		"/docs/_export?total=x",
	} {
		w := do(e, http.MethodPost, target, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
			continue
		}
		var ex struct {
			Code int `json:"code"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &ex)
		if ex.Code != ecode.ParamErr {
			t.Errorf("%s: expected code %d, got %d", target, ecode.ParamErr, ex.Code)
		}
	}

	if w := do(e, http.MethodPost, "/docs/_search", "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestExport(t *testing.T) {
	b := &stubBackend{n: 12}
	e := testHandler(b)

	w := do(e, http.MethodPost, "/docs/_export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	r := decodeResult(t, w)
	if len(r.Data) != 12 {
		t.Errorf("expected 12 documents, got %d", len(r.Data))
	}
	if b.cleared == 0 {
		t.Error("expected the export cursor to be released")
	}

	w = do(e, http.MethodPost, "/docs/_export?total=4", "")
	if r := decodeResult(t, w); ids(r.Data) != "0,1,2,3" {
		t.Errorf("expected first 4 documents, got %s", ids(r.Data))
	}
}

func TestCount(t *testing.T) {
	e := testHandler(&stubBackend{n: 7})

	w := do(e, http.MethodPost, "/docs/_count", `{"query":{"match_all":{}},"sort":["n"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 7 {
		t.Errorf("expected count 7, got %d", body.Count)
	}
}

func TestUnavailable(t *testing.T) {
	e := testHandler(&stubBackend{n: 7, down: true})

	for _, target := range []string{"/docs/_search", "/docs/_export", "/docs/_count"} {
		if w := do(e, http.MethodPost, target, ""); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", target, w.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	b := &stubBackend{}
	collector := metrics.NewSearchCollector()
	e := testHandler(b, WithCollector(collector))

	if w := do(e, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	b.mu.Lock()
	b.down = true
	b.mu.Unlock()

	w := do(e, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
	if healthy := collector.Snapshot().Health["search:elasticsearch"]; healthy {
		t.Error("expected the collector to record the failed probe")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	pc, err := metrics.NewPrometheusCollector("searchkit", reg)
	if err != nil {
		t.Fatal(err)
	}
	e := testHandler(&stubBackend{n: 20}, WithCollector(pc), WithGatherer(reg, ""))

	do(e, http.MethodPost, "/docs/_search?offset=10&limit=5", "")

	w := do(e, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `searchkit_search_routes_total{engine="elasticsearch",route="scroll"} 1`) {
		t.Errorf("expected scroll route in exposition, got:\n%s", w.Body.String())
	}
}

func TestTraceIDHeader(t *testing.T) {
	e := testHandler(&stubBackend{n: 1})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(ctxutil.TraceIDHeader, "trace-123")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if got := w.Header().Get(ctxutil.TraceIDHeader); got != "trace-123" {
		t.Errorf("expected echoed trace id, got %q", got)
	}

	w = do(e, http.MethodGet, "/health", "")
	if w.Header().Get(ctxutil.TraceIDHeader) == "" {
		t.Error("expected a generated trace id")
	}
}
