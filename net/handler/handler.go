// Package handler exposes data/search over HTTP with gin.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/searchkit/ctxutil"
	"github.com/ncobase/searchkit/data/config"
	"github.com/ncobase/searchkit/data/metrics"
	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/ecode"
	"github.com/ncobase/searchkit/net/resp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves search requests against one backend.
type Handler struct {
	backend     search.Backend
	opts        []search.Option
	window      int
	health      *metrics.HealthMonitor
	gatherer    prometheus.Gatherer
	metricsPath string
}

// Option configures a Handler
type Option func(*Handler)

// WithCollector reports search and health metrics to c.
func WithCollector(c metrics.Collector) Option {
	return func(h *Handler) {
		if c == nil {
			return
		}
		h.opts = append(h.opts, search.WithCollector(c))
		h.health = metrics.NewHealthMonitor(c)
	}
}

// WithGatherer exposes g in the Prometheus text format on path,
// /metrics when path is empty.
func WithGatherer(g prometheus.Gatherer, path string) Option {
	return func(h *Handler) {
		h.gatherer = g
		if path != "" {
			h.metricsPath = path
		}
	}
}

// New creates a handler. Indices built per request share one breaker so an
// unreachable backend trips it once for every index.
func New(backend search.Backend, cfg *config.Search, opts ...Option) *Handler {
	if cfg == nil {
		cfg = config.DefaultSearch()
	}
	h := &Handler{
		backend:     backend,
		window:      search.OptionsFromConfig(cfg).WindowLimit,
		health:      metrics.NewHealthMonitor(nil),
		metricsPath: "/metrics",
	}
	for _, opt := range opts {
		opt(h)
	}
	h.opts = append([]search.Option{
		search.WithBreaker(search.NewBreaker(cfg.Engine, cfg.Breaker)),
		search.WithConfig(cfg),
	}, h.opts...)

	h.health.RegisterComponent(metrics.CheckerFunc{
		ComponentName: "search:" + string(backend.Type()),
		Probe:         backend.Ping,
	})
	return h
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	if h.gatherer != nil {
		r.GET(h.metricsPath, gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
	r.POST("/:index/_search", h.Search)
	r.POST("/:index/_export", h.Export)
	r.POST("/:index/_count", h.Count)
}

// Engine builds a gin engine with the default middleware and routes.
func (h *Handler) Engine() *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), TraceID(), AccessLog())
	h.Register(e)
	return e
}

// Health reports backend reachability.
func (h *Handler) Health(c *gin.Context) {
	healthy, components := h.health.Healthy(ctxutil.FromGinContext(c))
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"healthy": healthy, "components": components})
}

// Search runs a plain search, or a ranged one when offset or limit is given.
func (h *Handler) Search(c *gin.Context) {
	ctx := ctxutil.FromGinContext(c)
	idx, query, ok := h.prepare(c)
	if !ok {
		return
	}

	offsetStr, hasOffset := c.GetQuery("offset")
	limitStr, hasLimit := c.GetQuery("limit")

	var (
		res *search.Result
		err error
	)
	if !hasOffset && !hasLimit {
		res, err = idx.Search(ctx, query)
	} else {
		offset, perr := intParam(offsetStr, 0)
		if perr != nil {
			resp.BadRequest(c, ecode.FieldIsInvalid("offset"), perr.Error())
			return
		}
		limit, perr := intParam(limitStr, h.window)
		if perr != nil {
			resp.BadRequest(c, ecode.FieldIsInvalid("limit"), perr.Error())
			return
		}
		if offset < 0 || limit < 0 {
			resp.BadRequest(c, ecode.FieldIsNegative("offset and limit"))
			return
		}
		res, err = idx.AdvancedSearch(ctx, query, offset, limit)
	}
	h.writeResult(c, res, err)
}

// Export returns every matching document.
func (h *Handler) Export(c *gin.Context) {
	ctx := ctxutil.FromGinContext(c)
	idx, query, ok := h.prepare(c)
	if !ok {
		return
	}

	var totals []int64
	if s, has := c.GetQuery("total"); has {
		total, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			resp.BadRequest(c, ecode.FieldIsInvalid("total"), err.Error())
			return
		}
		totals = append(totals, total)
	}

	res, err := idx.AdvancedSearchAll(ctx, query, totals...)
	h.writeResult(c, res, err)
}

// Count returns the number of matching documents.
func (h *Handler) Count(c *gin.Context) {
	ctx := ctxutil.FromGinContext(c)
	idx, query, ok := h.prepare(c)
	if !ok {
		return
	}
	if !idx.Available(ctx) {
		resp.Unavailable(c)
		return
	}

	n, err := idx.Count(ctx, query)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Success(c, gin.H{"count": n})
}

func (h *Handler) prepare(c *gin.Context) (*search.Index, search.Query, bool) {
	idx, err := search.NewIndex(h.backend, search.IndexDefinition{IndexName: c.Param("index")}, h.opts...)
	if err != nil {
		resp.BadRequest(c, ecode.FieldIsInvalid("index"), err.Error())
		return nil, nil, false
	}
	query, err := readQuery(c.Request.Body)
	if err != nil {
		resp.BadRequest(c, ecode.FieldIsInvalid("query body"), err.Error())
		return nil, nil, false
	}
	return idx, query, true
}

func (h *Handler) writeResult(c *gin.Context, res *search.Result, err error) {
	switch {
	case err != nil:
		resp.Error(c, err)
	case res.Unavailable:
		resp.Unavailable(c)
	default:
		resp.Success(c, res)
	}
}

// readQuery decodes the request body. An empty body is an empty query.
// Numbers stay json.Number so large integers reach the backend unchanged.
func readQuery(body io.Reader) (search.Query, error) {
	query := search.Query{}
	if body == nil {
		return query, nil
	}
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&query); err != nil && err != io.EOF {
		return nil, err
	}
	if query == nil {
		query = search.Query{}
	}
	return query, nil
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
