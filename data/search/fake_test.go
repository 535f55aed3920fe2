package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// fakeBackend is an in-memory backend with scroll snapshots and a result
// window. It records every call the pager makes.
type fakeBackend struct {
	mu sync.Mutex

	window int
	docs   []*Hit
	down   bool
	exists bool

	// pingHold, when set, parks the next Ping until it is closed.
	pingHold    chan struct{}
	pingEntered chan struct{}

	searchErr  error
	advanceErr error
	clearErr   error

	searches    []Query
	countBodies []Query
	opens       []int
	advances    int
	cleared     []string
	created     map[string]any

	cursors map[string]*fakeCursor
	nextID  int

	stored     map[string]map[string]any
	lastIndex  string
	updateNoop bool
	deleted    int64
}

type fakeCursor struct {
	snapshot []*Hit
	pos      int
	size     int
}

func newFakeBackend(n, window int) *fakeBackend {
	f := &fakeBackend{
		window:  window,
		exists:  true,
		cursors: make(map[string]*fakeCursor),
		stored:  make(map[string]map[string]any),
	}
	for i := 0; i < n; i++ {
		f.docs = append(f.docs, &Hit{
			Index:  "docs",
			ID:     strconv.Itoa(i),
			Score:  1,
			Source: map[string]any{"n": i},
		})
	}
	return f
}

func (f *fakeBackend) Type() Engine { return Elasticsearch }

func (f *fakeBackend) Ping(ctx context.Context) bool {
	f.mu.Lock()
	hold, entered := f.pingHold, f.pingEntered
	f.pingHold, f.pingEntered = nil, nil
	f.mu.Unlock()
	if hold != nil {
		close(entered)
		<-hold
	}
	if ctx.Err() != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.down
}

func (f *fakeBackend) Search(_ context.Context, _ string, body Query) (*SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches = append(f.searches, body.clone())
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	from, size := intField(body, "from", 0), intField(body, "size", 10)
	if from+size > f.window {
		return nil, &QueryError{Engine: Elasticsearch, Op: "search", Status: 400, Reason: "Result window is too large"}
	}
	return &SearchResponse{Total: int64(len(f.docs)), Hits: slice(f.docs, from, size)}, nil
}

func (f *fakeBackend) OpenScroll(_ context.Context, _ string, body Query, _ time.Duration, size int) (*SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := body["from"]; ok {
		return nil, errors.New("from is not allowed in a scroll context")
	}
	if size > f.window {
		return nil, &QueryError{Engine: Elasticsearch, Op: "scroll", Status: 400, Reason: "Batch size is too large"}
	}
	f.opens = append(f.opens, size)
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	f.nextID++
	id := fmt.Sprintf("scroll-%d", f.nextID)
	c := &fakeCursor{snapshot: append([]*Hit(nil), f.docs...), size: size}
	f.cursors[id] = c

	hits := slice(c.snapshot, 0, size)
	c.pos = len(hits)
	return &SearchResponse{Total: int64(len(c.snapshot)), Hits: hits, ScrollID: id}, nil
}

func (f *fakeBackend) Scroll(_ context.Context, scrollID string, _ time.Duration) (*SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.advances++
	if f.advanceErr != nil {
		return nil, f.advanceErr
	}
	c, ok := f.cursors[scrollID]
	if !ok {
		return nil, &QueryError{Engine: Elasticsearch, Op: "scroll", Status: 404, Reason: "No search context found"}
	}
	hits := slice(c.snapshot, c.pos, c.size)
	c.pos += len(hits)
	return &SearchResponse{Total: int64(len(c.snapshot)), Hits: hits, ScrollID: scrollID}, nil
}

func (f *fakeBackend) ClearScroll(_ context.Context, scrollID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleared = append(f.cleared, scrollID)
	delete(f.cursors, scrollID)
	return f.clearErr
}

func (f *fakeBackend) Count(_ context.Context, _ string, body Query) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countBodies = append(f.countBodies, body.clone())
	if f.searchErr != nil {
		return 0, f.searchErr
	}
	return int64(len(f.docs)), nil
}

func (f *fakeBackend) IndexExists(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists, nil
}

func (f *fakeBackend) CreateIndex(_ context.Context, index string, body map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = body
	f.lastIndex = index
	f.exists = true
	return nil
}

func (f *fakeBackend) IndexDocument(_ context.Context, index, id string, doc map[string]any, _ bool) (*WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		f.nextID++
		id = fmt.Sprintf("auto-%d", f.nextID)
	}
	f.lastIndex = index
	f.stored[id] = doc
	return &WriteResult{Result: "created", Successful: 2}, nil
}

func (f *fakeBackend) DocumentExists(_ context.Context, _ string, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.stored[id]
	return ok, nil
}

func (f *fakeBackend) UpdateDocument(_ context.Context, _ string, id string, doc map[string]any, _ bool) (*WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateNoop {
		return &WriteResult{Result: "noop"}, nil
	}
	for k, v := range doc {
		f.stored[id][k] = v
	}
	return &WriteResult{Result: "updated", Successful: 1}, nil
}

func (f *fakeBackend) DeleteDocument(_ context.Context, _ string, id string, _ bool) (*WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, id)
	return &WriteResult{Result: "deleted", Successful: 1}, nil
}

func (f *fakeBackend) DeleteByQuery(_ context.Context, _ string, body Query, _ bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countBodies = append(f.countBodies, body.clone())
	return f.deleted, nil
}

// maxWindow returns the largest from+size of any windowed search.
func (f *fakeBackend) maxWindow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := 0
	for _, b := range f.searches {
		if n := intField(b, "from", 0) + intField(b, "size", 10); n > m {
			m = n
		}
	}
	return m
}

func slice(hits []*Hit, from, size int) []*Hit {
	if from >= len(hits) {
		return []*Hit{}
	}
	end := min(from+size, len(hits))
	return append([]*Hit(nil), hits[from:end]...)
}

func intField(q Query, key string, def int) int {
	if v, ok := q[key].(int); ok {
		return v
	}
	return def
}

type routeRecorder struct {
	mu     sync.Mutex
	routes []string
	ops    []string
}

func (r *routeRecorder) SearchQuery(string, error) {}

func (r *routeRecorder) SearchIndex(_ string, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *routeRecorder) SearchRoute(_ string, route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}
