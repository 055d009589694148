package nweave

import (
	"context"
	"fmt"
)

// Target is the real callable at the end of every chain.  Name is
// the component identity used for self-exclusion: advisors declared
// by an aspect with the same name never make it into the chain.
type Target struct {
	Name string
	Call func(receiver any, args []any) (any, error)
}

// Chain is the materialized, ordered interceptor sequence plus the
// real target call for one call site.  A Chain is immutable once
// assembled and may be invoked concurrently: each call gets its own
// invocation with an independent cursor.
type Chain struct {
	site         *CallSite
	target       Target
	interceptors []Interceptor
	report       Report
}

type chainConfig struct {
	expose bool
}

// ChainOption adjusts chain assembly.
type ChainOption func(*chainConfig)

// ExposeInvocation requests that the executing invocation be
// published for the duration of each call so that advice and dynamic
// pointcuts can discover it with CurrentInvocation.  Exposure is
// injected at most once per chain no matter how often it is
// requested.
func ExposeInvocation() ChainOption {
	return func(cfg *chainConfig) { cfg.expose = true }
}

// NewChain assembles an executable chain for one call site.
// Assembly validates advisors, silently removes advisors declared by
// the target itself, filters by pointcut, sorts the survivors by
// precedence, and binds each kind of advice into an interceptor.
// Misconfiguration is reported here, never at call time: wrap the
// returned error with DetailedError for the full assembly report.
func NewChain(site *CallSite, target Target, advisors []Advisor, opts ...ChainOption) (*Chain, error) {
	if site == nil {
		return nil, fmt.Errorf("nweave: a chain requires a call site")
	}
	if target.Call == nil {
		return nil, fmt.Errorf("nweave: a chain requires a target callable")
	}
	var cfg chainConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Chain{site: site, target: target}

	candidates := make([]Advisor, 0, len(advisors))
	for _, a := range advisors {
		if a.Pointcut == nil {
			return nil, c.assemblyError(fmt.Errorf("advisor %s has no pointcut", a))
		}
		if a.Advice == nil {
			return nil, c.assemblyError(fmt.Errorf("advisor %s has no advice", a))
		}
		if a.Aspect != "" && a.Aspect == target.Name {
			c.report.exclude(a, "it is declared by the target component")
			continue
		}
		if !a.Pointcut.Matches(site) {
			c.report.exclude(a, "its pointcut does not match")
			continue
		}
		candidates = append(candidates, a)
	}

	sorted, ok := sortAdvisors(candidates)
	if !ok {
		c.report.Fallback = true
	}

	expose := cfg.expose
	interceptors := make([]Interceptor, 0, len(sorted)+1)
	for _, a := range sorted {
		bound, err := bindAdvice(a)
		if err != nil {
			return nil, c.assemblyError(err)
		}
		if dp, ok := a.Pointcut.(DynamicPointcut); ok && dp.Dynamic() {
			bound = dynamicGuard{pointcut: dp, advice: bound}
			expose = true
		}
		c.report.include(a)
		interceptors = append(interceptors, bound)
	}
	if expose && (len(interceptors) == 0 || interceptors[0] != exposeSentinel) {
		interceptors = append([]Interceptor{exposeSentinel}, interceptors...)
	}
	c.interceptors = interceptors
	return c, nil
}

func (c *Chain) assemblyError(err error) error {
	return &weaveError{
		err:     fmt.Errorf("nweave: assembling chain for %s: %w", c.site, err),
		details: c.report.String(),
	}
}

// Call runs the chain.  Each call constructs a fresh invocation with
// its own cursor; the Chain itself holds no per-call state, so one
// Chain may be called from many goroutines at once.  A chain built
// from an empty advisor list is equivalent to calling the target
// directly.
func (c *Chain) Call(ctx context.Context, receiver any, args []any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return newInvocation(c, ctx, receiver, args).Proceed()
}

// Site returns the call site the chain was assembled for.
func (c *Chain) Site() *CallSite { return c.site }

// Len returns the number of interceptors in the chain, including the
// exposure sentinel when present.
func (c *Chain) Len() int { return len(c.interceptors) }

// Report describes the assembly decisions that produced this chain.
func (c *Chain) Report() Report { return c.report }
