package search

import (
	"context"
	"fmt"

	"github.com/ncobase/searchkit/ctxutil"
	"github.com/ncobase/searchkit/logging/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ncobase/searchkit/data/search"

// Pager serves windowed, cursor-paginated and full-export reads against one
// index, hiding the backend result window.
//
// A Pager keeps no state between calls. Every cursor it opens is local to
// one call and released before the call returns.
type Pager struct {
	searcher  Searcher
	index     string
	opts      Options
	collector Collector
	tracer    trace.Tracer
}

// NewPager creates a pager for index
func NewPager(searcher Searcher, index string, opts Options, collector Collector) *Pager {
	if collector == nil {
		collector = NoOpCollector{}
	}
	return &Pager{
		searcher:  searcher,
		index:     index,
		opts:      opts.withDefaults(),
		collector: collector,
		tracer:    otel.Tracer(tracerName),
	}
}

// Options returns the pagination settings in use
func (p *Pager) Options() Options {
	return p.opts
}

// Search runs params as-is in a single windowed query.
func (p *Pager) Search(ctx context.Context, params Query) (res *Result, err error) {
	ctx, span := p.tracer.Start(ctx, "search.Search", trace.WithAttributes(attribute.String("search.index", p.index)))
	defer func() { endSpan(span, err) }()

	return p.query(ctx, bodyOf(params))
}

// AdvancedSearch returns the page at offset/limit. Ranges that fit in the
// window are served by one windowed query; anything beyond falls back to a
// cursor and returns the page that crosses offset, at page granularity.
func (p *Pager) AdvancedSearch(ctx context.Context, params Query, offset, limit int) (res *Result, err error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidRange, offset, limit)
	}

	ctx, span := p.tracer.Start(ctx, "search.AdvancedSearch", trace.WithAttributes(
		attribute.String("search.index", p.index),
		attribute.Int("search.offset", offset),
		attribute.Int("search.limit", limit),
	))
	defer func() { endSpan(span, err) }()

	body := bodyOf(params)
	switch {
	case p.opts.fitsWindow(offset, limit):
		span.SetAttributes(attribute.String("search.route", RouteWindow))
		return p.windowed(ctx, body, offset, limit)
	case limit == 0:
		// nothing to page through, only the total is wanted
		span.SetAttributes(attribute.String("search.route", RouteWindow))
		return p.windowed(ctx, body, 0, 0)
	default:
		span.SetAttributes(attribute.String("search.route", RouteScroll))
		return p.scroll(ctx, body, offset, limit)
	}
}

// AdvancedSearchAll returns every match. total, when given and positive,
// skips the count round trip.
func (p *Pager) AdvancedSearchAll(ctx context.Context, params Query, total ...int64) (res *Result, err error) {
	ctx, span := p.tracer.Start(ctx, "search.AdvancedSearchAll", trace.WithAttributes(attribute.String("search.index", p.index)))
	defer func() { endSpan(span, err) }()

	body := bodyOf(params)

	var n int64
	if len(total) > 0 {
		n = total[0]
	}
	if n <= 0 {
		if n, err = p.Count(ctx, body); err != nil {
			return nil, err
		}
	}
	span.SetAttributes(attribute.Int64("search.total", n))

	if n <= int64(p.opts.WindowLimit) {
		span.SetAttributes(attribute.String("search.route", RouteWindow))
		return p.windowed(ctx, body, 0, int(n))
	}
	span.SetAttributes(attribute.String("search.route", RouteExport))
	return p.export(ctx, body)
}

// Count returns the number of matches, ignoring from, size and sort.
func (p *Pager) Count(ctx context.Context, params Query) (int64, error) {
	callCtx, cancel := p.opts.callContext(ctx)
	defer cancel()

	n, err := p.searcher.Count(callCtx, p.index, bodyOf(params).forCount())
	p.collector.SearchQuery(p.engine(), err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Pager) windowed(ctx context.Context, body Query, offset, limit int) (*Result, error) {
	p.collector.SearchRoute(p.engine(), RouteWindow)
	logger.Debugf(ctx, "search %s: windowed from=%d size=%d", p.index, offset, limit)
	return p.query(ctx, body.withRange(offset, limit))
}

func (p *Pager) query(ctx context.Context, body Query) (*Result, error) {
	callCtx, cancel := p.opts.callContext(ctx)
	defer cancel()

	resp, err := p.searcher.Search(callCtx, p.index, body)
	p.collector.SearchQuery(p.engine(), err)
	if err != nil {
		return nil, err
	}
	return Normalize(resp), nil
}

// scroll walks a cursor opened with size=limit until the hits seen so far
// pass offset, and returns the last non-empty page.
func (p *Pager) scroll(ctx context.Context, body Query, offset, limit int) (*Result, error) {
	p.collector.SearchRoute(p.engine(), RouteScroll)
	logger.Debugf(ctx, "search %s: scroll offset=%d size=%d", p.index, offset, limit)

	first, err := p.openScroll(ctx, body, min(limit, p.opts.WindowLimit))
	if err != nil {
		return nil, err
	}
	cursor := first.ScrollID
	defer func() { p.release(ctx, cursor) }()

	page, seen := first.Hits, len(first.Hits)
	if offset == 0 {
		return &Result{Data: normalizeHits(page), Total: first.Total}, nil
	}

	for seen <= offset && cursor != "" {
		next, err := p.advance(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if next.ScrollID != "" {
			cursor = next.ScrollID
		}
		if len(next.Hits) == 0 {
			break
		}
		page = next.Hits
		seen += len(next.Hits)
	}

	return &Result{Data: normalizeHits(page), Total: first.Total}, nil
}

// export drains a cursor opened with size=WindowLimit.
func (p *Pager) export(ctx context.Context, body Query) (*Result, error) {
	p.collector.SearchRoute(p.engine(), RouteExport)
	logger.Debugf(ctx, "search %s: export", p.index)

	first, err := p.openScroll(ctx, body, p.opts.WindowLimit)
	if err != nil {
		return nil, err
	}
	cursor := first.ScrollID
	defer func() { p.release(ctx, cursor) }()

	data := normalizeHits(first.Hits)
	if len(first.Hits) == 0 {
		return &Result{Data: data, Total: first.Total}, nil
	}

	for cursor != "" {
		next, err := p.advance(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if next.ScrollID != "" {
			cursor = next.ScrollID
		}
		if len(next.Hits) == 0 {
			break
		}
		data = append(data, normalizeHits(next.Hits)...)
	}

	if int64(len(data)) != first.Total {
		logger.Warnf(ctx, "search %s: exported %d hits, backend reported %d", p.index, len(data), first.Total)
	}
	return &Result{Data: data, Total: first.Total}, nil
}

func (p *Pager) openScroll(ctx context.Context, body Query, size int) (*SearchResponse, error) {
	callCtx, cancel := p.opts.callContext(ctx)
	defer cancel()

	resp, err := p.searcher.OpenScroll(callCtx, p.index, body.without("from", "size"), p.opts.ScrollTTL, size)
	p.collector.SearchQuery(p.engine(), err)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &SearchResponse{}
	}
	return resp, nil
}

func (p *Pager) advance(ctx context.Context, cursor string) (*SearchResponse, error) {
	callCtx, cancel := p.opts.callContext(ctx)
	defer cancel()

	resp, err := p.searcher.Scroll(callCtx, cursor, p.opts.ScrollTTL)
	p.collector.SearchQuery(p.engine(), err)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &SearchResponse{}
	}
	return resp, nil
}

// release clears the cursor even when ctx is already cancelled.
func (p *Pager) release(ctx context.Context, cursor string) {
	if cursor == "" {
		return
	}
	clearCtx, cancel := ctxutil.WithAsyncContext(ctx, p.opts.Timeout)
	defer cancel()

	if err := p.searcher.ClearScroll(clearCtx, cursor); err != nil {
		logger.Warnf(ctx, "search %s: failed to release scroll cursor: %v", p.index, err)
	}
}

func (p *Pager) engine() string {
	return string(p.searcher.Type())
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
