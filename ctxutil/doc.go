// Package ctxutil carries request-scoped values through context.Context.
//
// Values set on a context that wraps a *gin.Context are mirrored into the
// gin context, so handlers and the search layer see the same trace id:
//
//	ctx := ctxutil.FromGinContext(c)
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//
// WithAsyncContext detaches cleanup work, such as releasing a scroll
// cursor, from the cancellation of the request that started it:
//
//	ctx, cancel := ctxutil.WithAsyncContext(ctx, 5*time.Second)
//	defer cancel()
package ctxutil
