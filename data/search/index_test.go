package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ncobase/searchkit/data/config"
)

var testDefinition = IndexDefinition{
	IndexName: "articles",
	Properties: map[string]any{
		"title": map[string]any{"type": "text"},
	},
	IndexSettings: map[string]any{"number_of_shards": 1},
}

func newTestIndex(t *testing.T, f *fakeBackend, opts ...Option) *Index {
	t.Helper()
	idx, err := NewIndex(f, testDefinition, opts...)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	return idx
}

func withFakeFactory(t *testing.T, f *fakeBackend) {
	t.Helper()
	factoriesMu.Lock()
	prev, had := backendFactories[Elasticsearch]
	factoriesMu.Unlock()

	RegisterBackendFactory(Elasticsearch, func(*config.Search) (Backend, error) { return f, nil })
	t.Cleanup(func() {
		factoriesMu.Lock()
		defer factoriesMu.Unlock()
		if had {
			backendFactories[Elasticsearch] = prev
		} else {
			delete(backendFactories, Elasticsearch)
		}
	})
}

func testConfig() *config.Search {
	cfg := config.DefaultSearch()
	cfg.IndexPrefix = "app-test"
	cfg.Elasticsearch = &config.Elasticsearch{Addresses: []string{"http://localhost:9200"}}
	return cfg
}

func TestNewIndexValidation(t *testing.T) {
	f := newFakeBackend(0, 100)

	tests := []struct {
		name string
		def  Definition
	}{
		{"nil definition", nil},
		{"empty name", IndexDefinition{}},
		{"blank name", IndexDefinition{IndexName: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewIndex(f, tt.def); !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}

	if _, err := NewIndex(nil, testDefinition); err == nil {
		t.Error("expected error for nil backend")
	}
}

func TestNewBootstrapsIndex(t *testing.T) {
	f := newFakeBackend(0, 100)
	f.exists = false
	withFakeFactory(t, f)

	idx, err := New(context.Background(), testConfig(), testDefinition)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if idx.Name() != "app-test-articles" {
		t.Errorf("unexpected index name %q", idx.Name())
	}
	if f.lastIndex != "app-test-articles" {
		t.Errorf("index created under %q", f.lastIndex)
	}

	want := map[string]any{
		"mappings": map[string]any{
			"_source":    map[string]any{"enabled": true},
			"properties": testDefinition.Properties,
		},
		"settings": testDefinition.IndexSettings,
	}
	if !reflect.DeepEqual(f.created, want) {
		t.Errorf("unexpected create body: %v", f.created)
	}
}

func TestNewFailsFast(t *testing.T) {
	t.Run("unreachable backend", func(t *testing.T) {
		f := newFakeBackend(0, 100)
		f.down = true
		withFakeFactory(t, f)

		if _, err := New(context.Background(), testConfig(), testDefinition); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("missing addresses", func(t *testing.T) {
		cfg := testConfig()
		cfg.Elasticsearch = nil
		if _, err := New(context.Background(), cfg, testDefinition); err == nil {
			t.Error("expected config error")
		}
	})

	t.Run("unregistered engine", func(t *testing.T) {
		cfg := testConfig()
		cfg.Engine = config.EngineOpenSearch
		cfg.OpenSearch = &config.OpenSearch{Addresses: []string{"http://localhost:9200"}}
		if _, err := New(context.Background(), cfg, testDefinition); !errors.Is(err, ErrBackendNotFound) {
			t.Errorf("expected ErrBackendNotFound, got %v", err)
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		if _, err := New(context.Background(), testConfig(), nil); !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("expected ErrInvalidDefinition, got %v", err)
		}
	})
}

func TestBootstrapSkipsEmptyMapping(t *testing.T) {
	f := newFakeBackend(0, 100)
	f.exists = false
	idx, err := NewIndex(f, IndexDefinition{IndexName: "logs"})
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	if err := idx.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if f.created != nil {
		t.Error("index without mapping should not be created")
	}
}

func TestIndexReadsWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend(20, 100)
	f.down = true
	idx := newTestIndex(t, f)

	for name, call := range map[string]func() (*Result, error){
		"search":   func() (*Result, error) { return idx.Search(ctx, Query{}) },
		"advanced": func() (*Result, error) { return idx.AdvancedSearch(ctx, Query{}, 0, 10) },
		"all":      func() (*Result, error) { return idx.AdvancedSearchAll(ctx, Query{}) },
	} {
		res, err := call()
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if !res.Unavailable || len(res.Data) != 0 || res.Total != 0 {
			t.Errorf("%s: expected unavailable result, got %+v", name, res)
		}
	}

	if n, err := idx.Count(ctx, Query{}); n != 0 || err != nil {
		t.Errorf("expected 0 count, got %d (%v)", n, err)
	}
	if ok, err := idx.Put(ctx, map[string]any{"title": "x"}); ok || err != nil {
		t.Errorf("expected put to degrade to false, got %v (%v)", ok, err)
	}
	if len(f.searches)+len(f.opens)+len(f.countBodies) != 0 {
		t.Error("unavailable backend received queries")
	}
}

func TestIndexReadsWhenMissing(t *testing.T) {
	f := newFakeBackend(20, 100)
	f.exists = false
	idx := newTestIndex(t, f)

	res, err := idx.Search(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Unavailable || len(res.Data) != 0 || res.Total != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if n, _ := idx.Count(context.Background(), Query{}); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestIndexReadsDelegate(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend(250, 100)
	rec := &routeRecorder{}
	idx := newTestIndex(t, f, WithOptions(Options{WindowLimit: 100}), WithCollector(rec))

	res, err := idx.AdvancedSearch(ctx, Query{}, 150, 10)
	if err != nil {
		t.Fatalf("AdvancedSearch failed: %v", err)
	}
	if res.Total != 250 || len(res.Data) != 10 {
		t.Errorf("unexpected result %d/%d", len(res.Data), res.Total)
	}
	if _, err := idx.AdvancedSearch(ctx, Query{}, -1, 10); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if n, _ := idx.Count(ctx, Query{}); n != 250 {
		t.Errorf("expected 250, got %d", n)
	}
	if len(rec.routes) != 1 || rec.routes[0] != RouteScroll {
		t.Errorf("unexpected routes %v", rec.routes)
	}
}

func TestIndexPut(t *testing.T) {
	ctx := context.Background()

	t.Run("metadata id field is stripped", func(t *testing.T) {
		f := newFakeBackend(0, 100)
		idx := newTestIndex(t, f)

		ok, err := idx.Put(ctx, map[string]any{"_id": "a1", "title": "hello"})
		if err != nil || !ok {
			t.Fatalf("Put failed: %v %v", ok, err)
		}
		doc, found := f.stored["a1"]
		if !found {
			t.Fatalf("document not stored under a1: %v", f.stored)
		}
		if _, has := doc["_id"]; has {
			t.Error("_id must not be stored in the source")
		}
	})

	t.Run("custom id field is kept", func(t *testing.T) {
		f := newFakeBackend(0, 100)
		idx := newTestIndex(t, f, WithIDField("uid"))

		if ok, _ := idx.Put(ctx, map[string]any{"uid": 7, "title": "x"}); !ok {
			t.Fatal("Put failed")
		}
		if doc := f.stored["7"]; doc["uid"] != 7 {
			t.Errorf("expected uid kept, got %v", doc)
		}
	})

	t.Run("no id lets the backend assign one", func(t *testing.T) {
		f := newFakeBackend(0, 100)
		idx := newTestIndex(t, f)

		if ok, _ := idx.Put(ctx, map[string]any{"title": "x"}); !ok {
			t.Fatal("Put failed")
		}
		if len(f.stored) != 1 {
			t.Errorf("expected one document, got %v", f.stored)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		idx := newTestIndex(t, newFakeBackend(0, 100))
		if _, err := idx.Put(ctx, nil); err == nil {
			t.Error("expected error for empty document")
		}
	})
}

func TestIndexUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend(0, 100)
	f.stored["a1"] = map[string]any{"title": "old"}
	idx := newTestIndex(t, f)

	tests := []struct {
		name string
		id   string
		doc  map[string]any
		noop bool
		want bool
	}{
		{"updated", "a1", map[string]any{"title": "new"}, false, true},
		{"noop", "a1", map[string]any{"title": "new"}, true, true},
		{"missing document", "zz", map[string]any{"title": "new"}, false, false},
		{"empty id", "", map[string]any{"title": "new"}, false, false},
		{"empty doc", "a1", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.updateNoop = tt.noop
			got, err := idx.Update(ctx, tt.id, tt.doc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
	if f.stored["a1"]["title"] != "new" {
		t.Errorf("document not updated: %v", f.stored["a1"])
	}
}

func TestIndexDelete(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend(0, 100)
	f.stored["a1"] = map[string]any{"title": "x"}
	f.deleted = 3
	rec := &routeRecorder{}
	idx := newTestIndex(t, f, WithCollector(rec))

	if ok, _ := idx.Delete(ctx, ""); ok {
		t.Error("empty id must not delete")
	}
	if ok, _ := idx.Delete(ctx, "missing"); ok {
		t.Error("missing document must report false")
	}
	if ok, err := idx.Delete(ctx, "a1"); !ok || err != nil {
		t.Errorf("expected delete, got %v (%v)", ok, err)
	}
	if _, found := f.stored["a1"]; found {
		t.Error("document still stored")
	}

	n, err := idx.DeleteByQuery(ctx, Query{"query": map[string]any{"match_all": map[string]any{}}, "size": 5})
	if err != nil || n != 3 {
		t.Errorf("expected 3 deleted, got %d (%v)", n, err)
	}
	if _, has := f.countBodies[0]["size"]; has {
		t.Error("delete-by-query body kept size")
	}
	if !reflect.DeepEqual(rec.ops, []string{"delete", "delete_by_query"}) {
		t.Errorf("unexpected ops %v", rec.ops)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	f := newFakeBackend(0, 100)
	f.down = true
	idx := newTestIndex(t, f, WithBreaker(NewBreaker("test", &config.Breaker{MaxFailures: 2, OpenTimeout: time.Minute})))

	for i := 0; i < 2; i++ {
		if idx.Available(context.Background()) {
			t.Fatal("expected unavailable")
		}
	}

	f.down = false
	if idx.Available(context.Background()) {
		t.Error("open breaker should short-circuit the probe")
	}
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	f := newFakeBackend(0, 100)
	idx := newTestIndex(t, f, WithBreaker(NewBreaker("test", &config.Breaker{MaxFailures: 2, OpenTimeout: time.Minute})))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		if idx.Available(cancelled) {
			t.Fatal("a cancelled caller should not see the backend as available")
		}
	}

	if !idx.Available(context.Background()) {
		t.Fatal("healthy backend reported unavailable after caller cancellations")
	}
	res, err := idx.Search(context.Background(), Query{})
	if err != nil || res.Unavailable {
		t.Fatalf("expected a served search, got unavailable=%v err=%v", res != nil && res.Unavailable, err)
	}
}

func TestBreakerHalfOpenConcurrentProbe(t *testing.T) {
	f := newFakeBackend(0, 100)
	f.down = true
	idx := newTestIndex(t, f, WithBreaker(NewBreaker("test", &config.Breaker{MaxFailures: 1, OpenTimeout: 10 * time.Millisecond})))

	if idx.Available(context.Background()) {
		t.Fatal("expected unavailable")
	}
	time.Sleep(30 * time.Millisecond)

	hold, entered := make(chan struct{}), make(chan struct{})
	f.mu.Lock()
	f.down = false
	f.pingHold, f.pingEntered = hold, entered
	f.mu.Unlock()

	trial := make(chan bool, 1)
	go func() { trial <- idx.Available(context.Background()) }()
	<-entered

	if !idx.Available(context.Background()) {
		t.Error("request during the half-open trial should probe the backend directly")
	}
	close(hold)
	if !<-trial {
		t.Error("half-open trial should succeed")
	}
}

func TestSettingsFromConfig(t *testing.T) {
	got := SettingsFromConfig(&config.IndexSettings{Shards: 3, Replicas: 1, RefreshInterval: "5s"})
	want := map[string]any{"number_of_shards": 3, "number_of_replicas": 1, "refresh_interval": "5s"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if SettingsFromConfig(nil) != nil {
		t.Error("expected nil settings")
	}
}
