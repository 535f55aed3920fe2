package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/searchkit/data/config"
	"github.com/ncobase/searchkit/logging/logger"
	"github.com/sony/gobreaker"
)

// Index is the facade over one backend index: lifecycle, single-document
// writes and paginated reads.
//
// Every operation re-checks connectivity first. An unreachable backend
// degrades reads to Result{Unavailable: true} and writes to false.
type Index struct {
	backend   Backend
	def       Definition
	name      string
	pager     *Pager
	breaker   *gobreaker.CircuitBreaker
	idField   string
	refresh   bool
	collector Collector
}

type indexOptions struct {
	prefix    string
	pager     Options
	idField   string
	refresh   bool
	collector Collector
	breaker   *gobreaker.CircuitBreaker
}

// Option configures an Index
type Option func(*indexOptions)

// WithPrefix prepends prefix to the definition name.
func WithPrefix(prefix string) Option {
	return func(o *indexOptions) { o.prefix = prefix }
}

// WithOptions sets the pagination options
func WithOptions(opts Options) Option {
	return func(o *indexOptions) { o.pager = opts }
}

// WithIDField names the document field holding the document id.
func WithIDField(field string) Option {
	return func(o *indexOptions) { o.idField = field }
}

// WithRefresh controls whether writes wait for a refresh
func WithRefresh(refresh bool) Option {
	return func(o *indexOptions) { o.refresh = refresh }
}

// WithCollector sets the metrics collector
func WithCollector(c Collector) Option {
	return func(o *indexOptions) { o.collector = c }
}

// WithBreaker shares a connectivity breaker between indices of one backend.
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(o *indexOptions) { o.breaker = cb }
}

// WithConfig applies every index-level setting from the search config.
func WithConfig(cfg *config.Search) Option {
	return func(o *indexOptions) {
		if cfg == nil {
			return
		}
		o.prefix = cfg.IndexPrefix
		o.pager = OptionsFromConfig(cfg)
		o.idField = cfg.IDField
		o.refresh = cfg.Refresh
		if o.breaker == nil {
			o.breaker = NewBreaker(cfg.Engine, cfg.Breaker)
		}
	}
}

// NewBreaker creates the connectivity breaker used by Available. Errors from
// a caller that gave up do not count against the backend.
func NewBreaker(name string, cfg *config.Breaker) *gobreaker.CircuitBreaker {
	maxFailures, openTimeout, halfOpen := uint32(5), 30*time.Second, uint32(1)
	if cfg != nil {
		if cfg.MaxFailures > 0 {
			maxFailures = cfg.MaxFailures
		}
		if cfg.OpenTimeout > 0 {
			openTimeout = cfg.OpenTimeout
		}
		if cfg.HalfOpenRequests > 0 {
			halfOpen = cfg.HalfOpenRequests
		}
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search-" + name,
		MaxRequests: halfOpen,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
}

// New creates an index on the backend registered for cfg.Engine and
// bootstraps it. It fails when the definition or config is invalid, or when
// the backend cannot be reached.
func New(ctx context.Context, cfg *config.Search, def Definition, opts ...Option) (*Index, error) {
	if err := ValidateDefinition(def); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}

	idx, err := NewIndex(backend, def, append([]Option{WithConfig(cfg)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := idx.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// NewIndex wraps an existing backend. It performs no network calls.
func NewIndex(backend Backend, def Definition, opts ...Option) (*Index, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", ErrBackendNotFound)
	}
	if err := ValidateDefinition(def); err != nil {
		return nil, err
	}

	o := &indexOptions{
		pager:     DefaultOptions(),
		idField:   config.DefaultIDField,
		refresh:   true,
		collector: NoOpCollector{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.breaker == nil {
		o.breaker = NewBreaker(string(backend.Type()), nil)
	}
	if o.collector == nil {
		o.collector = NoOpCollector{}
	}

	name := def.Name()
	if o.prefix != "" {
		name = o.prefix + "-" + name
	}

	return &Index{
		backend:   backend,
		def:       def,
		name:      name,
		pager:     NewPager(backend, name, o.pager, o.collector),
		breaker:   o.breaker,
		idField:   o.idField,
		refresh:   o.refresh,
		collector: o.collector,
	}, nil
}

// Bootstrap checks connectivity and creates the index when it is missing.
func (i *Index) Bootstrap(ctx context.Context) error {
	if !i.Available(ctx) {
		return fmt.Errorf("%w: %s", ErrUnavailable, i.backend.Type())
	}
	exists, err := i.Exists(ctx)
	if err != nil {
		return err
	}
	if exists || len(i.def.Mapping()) == 0 {
		return nil
	}
	return i.InitMapping(ctx)
}

// Name returns the physical index name
func (i *Index) Name() string {
	return i.name
}

// Definition returns the definition the index was built from
func (i *Index) Definition() Definition {
	return i.def
}

// Pager returns the pager bound to this index
func (i *Index) Pager() *Pager {
	return i.pager
}

// Available probes the backend through the circuit breaker. A caller whose
// context is already done gets false without tripping the breaker.
func (i *Index) Available(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := i.breaker.Execute(func() (any, error) {
		return nil, i.ping(ctx)
	})
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		// half-open with its trial slots taken: ask the backend directly
		return i.ping(ctx) == nil
	}
	return err == nil
}

// ping returns the caller's context error when the caller gave up, so the
// breaker can tell it apart from an unreachable backend.
func (i *Index) ping(ctx context.Context) error {
	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()
	if i.backend.Ping(callCtx) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrUnavailable
}

// Exists reports whether the index exists.
func (i *Index) Exists(ctx context.Context) (bool, error) {
	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()
	return i.backend.IndexExists(callCtx, i.name)
}

// InitMapping creates the index from the definition.
func (i *Index) InitMapping(ctx context.Context) error {
	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()

	if err := i.backend.CreateIndex(callCtx, i.name, BuildIndexBody(i.def)); err != nil {
		return fmt.Errorf("create index %s: %w", i.name, err)
	}
	i.collector.SearchIndex(i.engine(), "create")
	logger.Infof(ctx, "search index %s created", i.name)
	return nil
}

// Put indexes one document. The id is read from the id field when present,
// otherwise the backend assigns one.
func (i *Index) Put(ctx context.Context, doc map[string]any) (bool, error) {
	if len(doc) == 0 {
		return false, fmt.Errorf("document is empty")
	}
	if !i.Available(ctx) {
		logger.Warnf(ctx, "search index %s: put skipped, backend unavailable", i.name)
		return false, nil
	}

	id, body := i.splitID(doc)

	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()

	res, err := i.backend.IndexDocument(callCtx, i.name, id, body, i.refresh)
	if err != nil {
		return false, err
	}
	i.collector.SearchIndex(i.engine(), "index")
	return res != nil && res.Successful >= 1, nil
}

// Update applies a partial update to an existing document.
func (i *Index) Update(ctx context.Context, id string, doc map[string]any) (bool, error) {
	if id == "" || len(doc) == 0 {
		logger.Errorf(ctx, "search index %s: update requires an id and a non-empty document", i.name)
		return false, nil
	}
	ok, err := i.documentExists(ctx, id)
	if err != nil || !ok {
		if err == nil {
			logger.Warnf(ctx, "search index %s: update skipped, document %s not found", i.name, id)
		}
		return false, err
	}

	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()

	res, err := i.backend.UpdateDocument(callCtx, i.name, id, doc, i.refresh)
	if err != nil {
		return false, err
	}
	i.collector.SearchIndex(i.engine(), "update")

	switch {
	case res == nil:
		return false, nil
	case res.Result == "noop":
		return true, nil
	default:
		return res.Result == "updated" && res.Successful >= 1, nil
	}
}

// Delete removes one document by id.
func (i *Index) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		logger.Errorf(ctx, "search index %s: delete requires an id", i.name)
		return false, nil
	}
	ok, err := i.documentExists(ctx, id)
	if err != nil || !ok {
		if err == nil {
			logger.Errorf(ctx, "search index %s: delete skipped, document %s not found", i.name, id)
		}
		return false, err
	}

	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()

	res, err := i.backend.DeleteDocument(callCtx, i.name, id, i.refresh)
	if err != nil {
		return false, err
	}
	i.collector.SearchIndex(i.engine(), "delete")
	return res != nil && res.Result == "deleted", nil
}

// DeleteByQuery removes every matching document and returns how many went.
func (i *Index) DeleteByQuery(ctx context.Context, params Query) (int64, error) {
	if ok, err := i.precheck(ctx); !ok {
		return 0, err
	}

	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()

	n, err := i.backend.DeleteByQuery(callCtx, i.name, bodyOf(params).forCount(), i.refresh)
	if err != nil {
		return 0, err
	}
	i.collector.SearchIndex(i.engine(), "delete_by_query")
	return n, nil
}

// Search runs params in one windowed query.
func (i *Index) Search(ctx context.Context, params Query) (*Result, error) {
	if res, ok, err := i.readPrecheck(ctx); !ok {
		return res, err
	}
	return i.pager.Search(ctx, params)
}

// AdvancedSearch returns the page at offset/limit, beyond the window if needed.
func (i *Index) AdvancedSearch(ctx context.Context, params Query, offset, limit int) (*Result, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidRange, offset, limit)
	}
	if res, ok, err := i.readPrecheck(ctx); !ok {
		return res, err
	}
	return i.pager.AdvancedSearch(ctx, params, offset, limit)
}

// AdvancedSearchAll returns every match, counting first unless total is given.
func (i *Index) AdvancedSearchAll(ctx context.Context, params Query, total ...int64) (*Result, error) {
	if res, ok, err := i.readPrecheck(ctx); !ok {
		return res, err
	}
	return i.pager.AdvancedSearchAll(ctx, params, total...)
}

// Count returns the number of matches; 0 when unreachable or missing.
func (i *Index) Count(ctx context.Context, params Query) (int64, error) {
	if ok, err := i.precheck(ctx); !ok {
		return 0, err
	}
	return i.pager.Count(ctx, params)
}

// precheck reports whether the backend is reachable and the index exists.
func (i *Index) precheck(ctx context.Context) (bool, error) {
	if !i.Available(ctx) {
		logger.Warnf(ctx, "search index %s: backend unavailable", i.name)
		return false, nil
	}
	exists, err := i.Exists(ctx)
	if err != nil {
		return false, err
	}
	if !exists {
		logger.Debugf(ctx, "search index %s does not exist", i.name)
	}
	return exists, nil
}

func (i *Index) readPrecheck(ctx context.Context) (*Result, bool, error) {
	if !i.Available(ctx) {
		logger.Warnf(ctx, "search index %s: backend unavailable", i.name)
		return &Result{Data: []Hit{}, Unavailable: true}, false, nil
	}
	exists, err := i.Exists(ctx)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		logger.Debugf(ctx, "search index %s does not exist", i.name)
		return &Result{Data: []Hit{}}, false, nil
	}
	return nil, true, nil
}

func (i *Index) documentExists(ctx context.Context, id string) (bool, error) {
	if !i.Available(ctx) {
		logger.Warnf(ctx, "search index %s: backend unavailable", i.name)
		return false, nil
	}
	callCtx, cancel := i.pager.opts.callContext(ctx)
	defer cancel()
	return i.backend.DocumentExists(callCtx, i.name, id)
}

// splitID extracts the document id. Metadata fields such as _id are not
// allowed in the source and are removed from the stored body.
func (i *Index) splitID(doc map[string]any) (string, map[string]any) {
	v, ok := doc[i.idField]
	if !ok || v == nil {
		return "", doc
	}
	id := fmt.Sprint(v)
	if len(i.idField) == 0 || i.idField[0] != '_' {
		return id, doc
	}
	body := make(map[string]any, len(doc))
	for k, val := range doc {
		if k != i.idField {
			body[k] = val
		}
	}
	return id, body
}

func (i *Index) engine() string {
	return string(i.backend.Type())
}

// IsUnavailable reports whether err means the backend could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
