package nweave

import (
	"fmt"
	"math"
)

// Kind tags the flavor of advice an advisor carries.  The precedence
// sorter treats the after-like kinds differently when breaking
// declaration-order ties.
type Kind int

const (
	// Around advice is a raw Interceptor: it decides how many times
	// (if any) to call Proceed.
	Around Kind = iota
	// Before advice runs on the way in.
	Before
	// AfterReturning advice runs on the way out, on success only.
	AfterReturning
	// AfterThrowing advice runs on the way out, on failure only.
	AfterThrowing
	// AfterFinally advice runs on the way out on every exit path.
	AfterFinally
)

func (k Kind) String() string {
	switch k {
	case Around:
		return "around"
	case Before:
		return "before"
	case AfterReturning:
		return "afterReturning"
	case AfterThrowing:
		return "afterThrowing"
	case AfterFinally:
		return "afterFinally"
	default:
		return fmt.Sprintf("kind-%d", int(k))
	}
}

// afterLike reports whether the kind observes the call on the way
// out.
func (k Kind) afterLike() bool {
	return k == AfterReturning || k == AfterThrowing || k == AfterFinally
}

// LowestPrecedence is the default order value.  Lower order values
// take precedence: they run earlier on the way in and later on the
// way out.
const LowestPrecedence = math.MaxInt

// Advisor pairs a pointcut with advice and carries the metadata that
// the precedence sorter needs.
type Advisor struct {
	// Aspect names the aspect that declared this advisor.  An
	// advisor whose Aspect equals the target's Name is silently
	// dropped during assembly so that an aspect never wraps calls
	// into its own declaring component.
	Aspect string

	// Order is the aspect-level order value, LowestPrecedence when
	// not set explicitly.
	Order int

	// Index is the declaration position within the aspect.
	Index int

	Kind     Kind
	Pointcut Pointcut

	// Advice must match Kind: an Interceptor (or InterceptorFunc)
	// for Around, and one of BeforeFunc, AfterReturningFunc,
	// AfterThrowingFunc, or AfterFinallyFunc for the other kinds.
	Advice any
}

func (a Advisor) String() string {
	return fmt.Sprintf("%s#%d/%s", a.Aspect, a.Index, a.Kind)
}

// Aspect collects advisors that share an identity and an order.
// Declaration indices are assigned in the order the advice methods
// are called.
type Aspect struct {
	name     string
	order    int
	advisors []Advisor
}

// AspectOption adjusts a new Aspect.
type AspectOption func(*Aspect)

// WithOrder sets the aspect-level order value.  Lower values take
// precedence.  Aspects without an explicit order get
// LowestPrecedence.
func WithOrder(order int) AspectOption {
	return func(a *Aspect) { a.order = order }
}

// NewAspect creates a named, empty aspect.
func NewAspect(name string, opts ...AspectOption) *Aspect {
	a := &Aspect{name: name, order: LowestPrecedence}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aspect) Name() string { return a.name }

func (a *Aspect) add(kind Kind, pc Pointcut, advice any) *Aspect {
	a.advisors = append(a.advisors, Advisor{
		Aspect:   a.name,
		Order:    a.order,
		Index:    len(a.advisors),
		Kind:     kind,
		Pointcut: pc,
		Advice:   advice,
	})
	return a
}

// Around declares around advice.  The advice decides how many times
// to call Proceed.
func (a *Aspect) Around(pc Pointcut, advice InterceptorFunc) *Aspect {
	return a.add(Around, pc, Interceptor(advice))
}

// Before declares advice that runs before matched calls proceed.
func (a *Aspect) Before(pc Pointcut, advice BeforeFunc) *Aspect {
	return a.add(Before, pc, advice)
}

// AfterReturning declares advice that runs after matched calls
// return successfully.
func (a *Aspect) AfterReturning(pc Pointcut, advice AfterReturningFunc) *Aspect {
	return a.add(AfterReturning, pc, advice)
}

// AfterThrowing declares advice that runs after matched calls fail.
func (a *Aspect) AfterThrowing(pc Pointcut, advice AfterThrowingFunc) *Aspect {
	return a.add(AfterThrowing, pc, advice)
}

// AfterFinally declares advice that runs after matched calls
// complete, on every exit path.
func (a *Aspect) AfterFinally(pc Pointcut, advice AfterFinallyFunc) *Aspect {
	return a.add(AfterFinally, pc, advice)
}

// Advisors returns a copy of the advisors declared so far.
func (a *Aspect) Advisors() []Advisor {
	out := make([]Advisor, len(a.advisors))
	copy(out, a.advisors)
	return out
}
