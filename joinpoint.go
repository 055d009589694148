package nweave

// A joinpoint reifies one call attempt so that interceptors can
// inspect it and continue it.  This file defines the static half:
// the kinds of call sites that can be intercepted and the descriptor
// that identifies one of them.

import (
	"context"
	"fmt"
	"reflect"

	"github.com/muir/reflectutils"
)

// CallKind distinguishes the kinds of call sites that can be
// intercepted.  The set is closed: a chain is assembled for exactly
// one kind and interceptors can switch on the kind directly instead
// of inspecting runtime types.
type CallKind int

const (
	// MethodCall is an invocation of a method or free function.
	MethodCall CallKind = iota
	// ConstructorCall creates the receiver rather than being
	// dispatched on one.  Constructor joinpoints have a nil receiver.
	ConstructorCall
	// FieldGet is a read of a field exposed through an accessor.
	FieldGet
	// FieldSet is a write of a field exposed through an accessor.
	FieldSet
)

func (k CallKind) String() string {
	switch k {
	case MethodCall:
		return "method"
	case ConstructorCall:
		return "constructor"
	case FieldGet:
		return "field-get"
	case FieldSet:
		return "field-set"
	default:
		return fmt.Sprintf("callkind-%d", int(k))
	}
}

// CallSite is the static part of a joinpoint: it identifies which
// method, constructor, or field accessor is being invoked.  CallSite
// values compare with == and Weaver uses them as cache keys.
type CallSite struct {
	Kind CallKind

	// Owner is the type that declares the call site.  It may be nil
	// for free functions.
	Owner reflect.Type

	// Name is the method, constructor, or field name.
	Name string

	// Signature is the func type of the call if known.  It is
	// informational: the chain does not check arguments against it.
	Signature reflect.Type
}

func (s *CallSite) String() string {
	if s.Owner == nil {
		return s.Kind.String() + " " + s.Name
	}
	return s.Kind.String() + " " + reflectutils.TypeName(s.Owner) + "." + s.Name
}

// Joinpoint is a reified call event.  It is created once per call
// attempt, consumed while the chain runs, and discarded when the
// call completes.
type Joinpoint interface {
	// Receiver returns the instance the call is dispatched on.  It
	// is nil for constructor calls and free functions.
	Receiver() any

	// StaticPart identifies which call site is being invoked.
	StaticPart() *CallSite

	// Arguments returns the live argument list.  The slice is shared
	// with the rest of the chain: mutating an element changes what
	// downstream interceptors and the target receive.
	Arguments() []any

	// SetArgument replaces argument i.
	SetArgument(i int, value any)

	// Context returns the context the chain was invoked with.  When
	// the chain was assembled with exposure, the executing invocation
	// can be recovered from it with CurrentInvocation.
	Context() context.Context
}
