package nweave

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// Invocation is a Joinpoint that can be continued.  Exactly one
// traversal of a chain owns each Invocation; it is never shared
// between calls.
type Invocation interface {
	Joinpoint

	// ID identifies this invocation for log correlation.  Every call
	// through a chain gets a fresh ID.
	ID() string

	// Proceed advances to the next interceptor in the chain, or, once
	// the chain is exhausted, performs the real target call and
	// returns its outcome.  An interceptor may call Proceed zero
	// times (short-circuit), once (pass through), or more than once
	// (retry); each call runs the same downstream suffix.  Failures
	// raised downstream propagate unmodified.
	Proceed() (any, error)
}

type invocation struct {
	chain    *Chain
	ctx      context.Context
	receiver any
	args     []any
	cursor   int
	id       string
}

var _ Invocation = &invocation{}

func newInvocation(c *Chain, ctx context.Context, receiver any, args []any) *invocation {
	inv := &invocation{
		chain:    c,
		ctx:      ctx,
		receiver: receiver,
		args:     args,
	}
	if u, err := uuid.NewV4(); err == nil {
		inv.id = u.String()
	}
	return inv
}

func (inv *invocation) Receiver() any            { return inv.receiver }
func (inv *invocation) StaticPart() *CallSite    { return inv.chain.site }
func (inv *invocation) Arguments() []any         { return inv.args }
func (inv *invocation) SetArgument(i int, v any) { inv.args[i] = v }
func (inv *invocation) Context() context.Context { return inv.ctx }
func (inv *invocation) ID() string               { return inv.id }

// Proceed restores the cursor after the downstream suffix completes
// so that an interceptor calling Proceed more than once re-runs the
// same suffix each time.
func (inv *invocation) Proceed() (any, error) {
	cursor := inv.cursor
	if cursor == len(inv.chain.interceptors) {
		return inv.chain.target.Call(inv.receiver, inv.args)
	}
	inv.cursor = cursor + 1
	defer func() {
		inv.cursor = cursor
	}()
	return inv.chain.interceptors[cursor].Invoke(inv)
}
