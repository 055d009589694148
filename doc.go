// Obligatory // comment

/*

Package nweave is an in-process call interception framework.  It
weaves cross-cutting behaviors (logging, caching, retries, whatever)
around a call without the caller or the callee being aware of it.
There is no proxy generation and no wire protocol: nweave only
orders interceptors and runs them.

Joinpoints and invocations

A call attempt is reified as a Joinpoint: the receiver, a static
CallSite descriptor, and a mutable argument list.  While a chain is
running the joinpoint is an Invocation, which adds Proceed().  Each
interceptor decides how many times to call Proceed: zero times
short-circuits the call, once passes through, more than once retries
the downstream suffix.  When the chain is exhausted Proceed performs
the real target call.

	chain, _ := nweave.NewChain(site, target, advisors)
	result, err := chain.Call(ctx, receiver, args)

Advisors and aspects

An Advisor pairs a Pointcut (which call sites does this apply to?)
with advice, and carries the metadata that decides execution order:
the owning aspect's name, an order value, a declaration index, and
an advice kind.  The Aspect builder assigns indices for you:

	audit := nweave.NewAspect("audit", nweave.WithOrder(10)).
		Before(nweave.MatchName("Save"), logTheCall).
		AfterThrowing(nweave.MatchAll(), recordTheFailure)

Precedence

Lower order values take precedence: they run first on the way in and
last on the way out.  Advisors tied on aspect and order are ordered
by declaration position; a tied group that contains after-like
advice (AfterReturning, AfterThrowing, AfterFinally) flips so that
later declarations wrap tighter on the way out.  The sort is a
stable partial-order sort over a three-valued comparison; advisors
with no defined relation keep their input order.  If the relation is
somehow contradictory the sorter fails soft and assembly falls back
to a plain order-value sort.

Assembly

NewChain filters out advisors declared by the target component
itself (an aspect never intercepts its own calls), drops advisors
whose pointcuts do not match the call site, sorts the rest, and
binds each advice kind into an interceptor.  All misconfiguration
surfaces at assembly time; the call path never validates anything
and never catches anything.  Chain.Report() and DetailedError()
explain what was included and excluded and why.

Weaver caches assembled chains per (call site, target) pair, which
is worthwhile because the applicable advisor set is stable for the
lifetime of the set.

Exposure

Chains assembled with ExposeInvocation (or containing a dynamic
pointcut) publish the executing invocation into the call's context.
CurrentInvocation(ctx) recovers it.  The exposure wrapper restores
the previous context on every exit path, so nested and concurrent
calls never observe each other.

Subpackages

nexpr compiles pointcuts from expression strings.  nmanifest builds
advisor sets from declarative manifests plus a registry of named
advice.

*/
package nweave
