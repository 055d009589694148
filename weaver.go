package nweave

import (
	"context"
	"sync"
)

// Weaver holds an advisor set and assembles chains on demand,
// caching each assembled chain per (call site, target name).  The
// advisor set is fixed at construction so cached chains never go
// stale; build a new Weaver to change the set.
type Weaver struct {
	advisors []Advisor
	expose   bool
	logger   BasicLogger
	chains   sync.Map // chainKey -> *Chain
}

type chainKey struct {
	site   CallSite
	target string
}

// WeaverOption adjusts a new Weaver.
type WeaverOption func(*Weaver)

// WithAspects adds every advisor declared by the given aspects.
func WithAspects(aspects ...*Aspect) WeaverOption {
	return func(w *Weaver) {
		for _, a := range aspects {
			w.advisors = append(w.advisors, a.Advisors()...)
		}
	}
}

// WithAdvisors adds loose advisors.
func WithAdvisors(advisors ...Advisor) WeaverOption {
	return func(w *Weaver) {
		w.advisors = append(w.advisors, advisors...)
	}
}

// WithExposure requests invocation exposure on every chain the
// Weaver assembles.
func WithExposure() WeaverOption {
	return func(w *Weaver) { w.expose = true }
}

// WithLogger sets the logger used to record assembly decisions.
func WithLogger(logger BasicLogger) WeaverOption {
	return func(w *Weaver) { w.logger = logger }
}

// NewWeaver creates a Weaver.  Without options it weaves nothing:
// every chain it assembles is just the target call.
func NewWeaver(opts ...WeaverOption) *Weaver {
	w := &Weaver{logger: NoLogger()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Chain returns the chain for a call site and target, assembling it
// on first use.  Concurrent callers for the same key may race to
// assemble but all receive the same cached chain.
func (w *Weaver) Chain(site *CallSite, target Target) (*Chain, error) {
	key := chainKey{site: *site, target: target.Name}
	if cached, ok := w.chains.Load(key); ok {
		return cached.(*Chain), nil
	}
	var opts []ChainOption
	if w.expose {
		opts = append(opts, ExposeInvocation())
	}
	c, err := NewChain(site, target, w.advisors, opts...)
	if err != nil {
		w.logger.Error("chain assembly failed", map[string]any{
			"site":  site.String(),
			"error": err.Error(),
		})
		return nil, err
	}
	report := c.Report()
	w.logger.Debug("assembled chain", map[string]any{
		"site":     site.String(),
		"target":   target.Name,
		"included": len(report.Included),
		"excluded": len(report.Excluded),
		"fallback": report.Fallback,
	})
	actual, _ := w.chains.LoadOrStore(key, c)
	return actual.(*Chain), nil
}

// Call assembles (or fetches) the chain for site and target and runs
// it.
func (w *Weaver) Call(ctx context.Context, site *CallSite, target Target, receiver any, args []any) (any, error) {
	c, err := w.Chain(site, target)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, receiver, args)
}
