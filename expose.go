package nweave

import "context"

type invocationKey struct{}

// CurrentInvocation returns the invocation currently executing in
// this call stack, if the chain it belongs to was assembled with
// exposure (the ExposeInvocation option, or any advisor with a
// dynamic pointcut).  The invocation is carried in the context, so
// concurrent calls never observe each other and nothing is left
// behind once the call completes.
func CurrentInvocation(ctx context.Context) (Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(Invocation)
	return inv, ok
}

// exposeInterceptor is the sentinel placed at the head of chains that
// need the executing invocation to be discoverable.  On entry it
// publishes the invocation into the invocation's context; the
// deferred restore puts the previous context back on every exit
// path, so nested invocations see their own publisher and the outer
// value reappears when they finish.
type exposeInterceptor struct{}

var exposeSentinel Interceptor = exposeInterceptor{}

func (exposeInterceptor) Invoke(inv Invocation) (any, error) {
	raw, ok := inv.(*invocation)
	if !ok {
		return inv.Proceed()
	}
	prev := raw.ctx
	raw.ctx = context.WithValue(prev, invocationKey{}, inv)
	defer func() {
		raw.ctx = prev
	}()
	return inv.Proceed()
}
