package nweave

import "fmt"

// Interceptor is one behavior woven around a call.  Interceptors may
// be stateless or carry internal state; stateful interceptors must
// provide their own concurrency safety because one Interceptor value
// can serve many simultaneous invocations.
type Interceptor interface {
	Invoke(inv Invocation) (any, error)
}

// InterceptorFunc adapts a function to the Interceptor interface.
type InterceptorFunc func(Invocation) (any, error)

func (f InterceptorFunc) Invoke(inv Invocation) (any, error) { return f(inv) }

// BeforeFunc is advice that runs before the call proceeds.  Returning
// a non-nil error short-circuits the chain: neither downstream
// interceptors nor the target run and the caller observes the error.
type BeforeFunc func(Joinpoint) error

// AfterReturningFunc is advice that runs only when the downstream
// call succeeded.  Returning a non-nil error replaces the successful
// result with that failure.
type AfterReturningFunc func(jp Joinpoint, result any) error

// AfterThrowingFunc is advice that runs only when the downstream call
// failed.  Returning a non-nil error replaces the failure; returning
// nil lets the original failure propagate.
type AfterThrowingFunc func(jp Joinpoint, failure error) error

// AfterFinallyFunc is advice that runs on every exit path, success or
// failure.  It cannot change the outcome.
type AfterFinallyFunc func(Joinpoint)

// bindAdvice converts the advice carried by an advisor into an
// Interceptor according to the advisor's kind.  An advice value whose
// shape does not match the kind is a misconfiguration and is reported
// at assembly time.
func bindAdvice(a Advisor) (Interceptor, error) {
	switch a.Kind {
	case Around:
		switch advice := a.Advice.(type) {
		case Interceptor:
			return advice, nil
		case func(Invocation) (any, error):
			return InterceptorFunc(advice), nil
		}
	case Before:
		if f, ok := asBefore(a.Advice); ok {
			return InterceptorFunc(func(inv Invocation) (any, error) {
				if err := f(inv); err != nil {
					return nil, err
				}
				return inv.Proceed()
			}), nil
		}
	case AfterReturning:
		if f, ok := asAfterReturning(a.Advice); ok {
			return InterceptorFunc(func(inv Invocation) (any, error) {
				result, err := inv.Proceed()
				if err != nil {
					return nil, err
				}
				if err := f(inv, result); err != nil {
					return nil, err
				}
				return result, nil
			}), nil
		}
	case AfterThrowing:
		if f, ok := asAfterThrowing(a.Advice); ok {
			return InterceptorFunc(func(inv Invocation) (any, error) {
				result, err := inv.Proceed()
				if err == nil {
					return result, nil
				}
				if replacement := f(inv, err); replacement != nil {
					return nil, replacement
				}
				return nil, err
			}), nil
		}
	case AfterFinally:
		if f, ok := asAfterFinally(a.Advice); ok {
			return InterceptorFunc(func(inv Invocation) (any, error) {
				defer f(inv)
				return inv.Proceed()
			}), nil
		}
	}
	return nil, fmt.Errorf("advisor %s: advice of type %T does not match kind %s", a, a.Advice, a.Kind)
}

func asBefore(advice any) (BeforeFunc, bool) {
	switch f := advice.(type) {
	case BeforeFunc:
		return f, true
	case func(Joinpoint) error:
		return f, true
	}
	return nil, false
}

func asAfterReturning(advice any) (AfterReturningFunc, bool) {
	switch f := advice.(type) {
	case AfterReturningFunc:
		return f, true
	case func(Joinpoint, any) error:
		return f, true
	}
	return nil, false
}

func asAfterThrowing(advice any) (AfterThrowingFunc, bool) {
	switch f := advice.(type) {
	case AfterThrowingFunc:
		return f, true
	case func(Joinpoint, error) error:
		return f, true
	}
	return nil, false
}

func asAfterFinally(advice any) (AfterFinallyFunc, bool) {
	switch f := advice.(type) {
	case AfterFinallyFunc:
		return f, true
	case func(Joinpoint):
		return f, true
	}
	return nil, false
}

// dynamicGuard defers the final pointcut decision to call time.  When
// the live match fails the advice is skipped and the chain continues
// as if the advisor had not been present.
type dynamicGuard struct {
	pointcut DynamicPointcut
	advice   Interceptor
}

func (g dynamicGuard) Invoke(inv Invocation) (any, error) {
	if !g.pointcut.MatchesCall(inv) {
		return inv.Proceed()
	}
	return g.advice.Invoke(inv)
}
