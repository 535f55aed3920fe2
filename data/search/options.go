package search

import (
	"context"
	"time"

	"github.com/ncobase/searchkit/data/config"
)

// Options are the immutable pagination settings of a Pager.
type Options struct {
	// WindowLimit is the backend ceiling on from+size for one windowed query.
	WindowLimit int
	// ScrollTTL keeps a cursor alive between two advances.
	ScrollTTL time.Duration
	// Timeout bounds every backend round trip.
	Timeout time.Duration
}

// DefaultOptions returns the backend defaults
func DefaultOptions() Options {
	return Options{
		WindowLimit: config.DefaultWindowLimit,
		ScrollTTL:   config.DefaultScrollTTL,
		Timeout:     config.DefaultTimeout,
	}
}

// OptionsFromConfig reads pagination settings from the search config
func OptionsFromConfig(cfg *config.Search) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		WindowLimit: cfg.WindowLimit,
		ScrollTTL:   cfg.ScrollTTL,
		Timeout:     cfg.Timeout,
	}.withDefaults()
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WindowLimit <= 0 {
		o.WindowLimit = d.WindowLimit
	}
	if o.ScrollTTL <= 0 {
		o.ScrollTTL = d.ScrollTTL
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// fitsWindow reports offset+limit <= WindowLimit without overflowing.
func (o Options) fitsWindow(offset, limit int) bool {
	return limit <= o.WindowLimit && offset <= o.WindowLimit-limit
}

func (o Options) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.Timeout)
}
