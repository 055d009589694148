package nweave

import "reflect"

// Pointcut selects the call sites an advisor applies to.  Static
// matching happens once per (call site, target) pair, during chain
// assembly.
type Pointcut interface {
	Matches(site *CallSite) bool
}

// DynamicPointcut is a Pointcut that additionally inspects live call
// state.  When Dynamic returns true the advisor's advice runs behind
// a per-call guard and the chain is assembled with invocation
// exposure so that the predicate can observe the executing call.
type DynamicPointcut interface {
	Pointcut
	Dynamic() bool
	MatchesCall(jp Joinpoint) bool
}

// PointcutFunc adapts a function to the Pointcut interface.
type PointcutFunc func(*CallSite) bool

func (f PointcutFunc) Matches(site *CallSite) bool { return f(site) }

// MatchAll returns a pointcut that matches every call site.
func MatchAll() Pointcut {
	return PointcutFunc(func(*CallSite) bool { return true })
}

// MatchKind returns a pointcut that matches call sites of one kind.
func MatchKind(kind CallKind) Pointcut {
	return PointcutFunc(func(site *CallSite) bool { return site.Kind == kind })
}

// MatchName returns a pointcut that matches call sites by name.
func MatchName(names ...string) Pointcut {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return PointcutFunc(func(site *CallSite) bool {
		_, ok := set[site.Name]
		return ok
	})
}

// MatchOwner returns a pointcut that matches call sites declared by
// a specific type.
func MatchOwner[T any]() Pointcut {
	want := reflect.TypeOf((*T)(nil)).Elem()
	return PointcutFunc(func(site *CallSite) bool { return site.Owner == want })
}
