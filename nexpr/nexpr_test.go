package nexpr_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muir/nweave"
	"github.com/muir/nweave/nexpr"
)

type account struct{}

func site(kind nweave.CallKind, name string) *nweave.CallSite {
	return &nweave.CallSite{
		Kind:  kind,
		Owner: reflect.TypeOf(account{}),
		Name:  name,
	}
}

func TestStaticMatching(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		expr string
		site *nweave.CallSite
		want bool
	}{
		{
			name: "match by name",
			expr: `name == "Withdraw"`,
			site: site(nweave.MethodCall, "Withdraw"),
			want: true,
		},
		{
			name: "reject by name",
			expr: `name == "Withdraw"`,
			site: site(nweave.MethodCall, "Deposit"),
			want: false,
		},
		{
			name: "match by kind",
			expr: `kind == "constructor"`,
			site: site(nweave.ConstructorCall, "NewAccount"),
			want: true,
		},
		{
			name: "match by owner",
			expr: `owner contains "account"`,
			site: site(nweave.MethodCall, "Withdraw"),
			want: true,
		},
		{
			name: "combined predicate",
			expr: `kind == "method" && (name == "Withdraw" || name == "Deposit")`,
			site: site(nweave.MethodCall, "Deposit"),
			want: true,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pc, err := nexpr.Compile(tc.expr)
			require.NoError(t, err)
			assert.False(t, pc.Dynamic())
			assert.Equal(t, tc.want, pc.Matches(tc.site))
		})
	}
}

func TestCompileErrorsSurfaceAtAssemblyTime(t *testing.T) {
	t.Parallel()
	_, err := nexpr.Compile(`name ==`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile")

	assert.Panics(t, func() {
		nexpr.MustCompile(`name ==`)
	})
	assert.NotPanics(t, func() {
		nexpr.MustCompile(`name == "x"`)
	})
}

func TestDynamicPointcutMatchesStaticallyAlways(t *testing.T) {
	t.Parallel()
	pc, err := nexpr.CompileCall(`args[0] > 100`)
	require.NoError(t, err)
	assert.True(t, pc.Dynamic())
	// the static phase cannot decide an argument predicate
	assert.True(t, pc.Matches(site(nweave.MethodCall, "Withdraw")))
}

func TestDynamicPointcutGuardsTheAdvice(t *testing.T) {
	t.Parallel()
	pc := nexpr.MustCompileCall(`name == "Withdraw" && args[0] > 100`)
	adviceRuns := 0
	advisors := []nweave.Advisor{{
		Aspect:   "limits",
		Order:    nweave.LowestPrecedence,
		Kind:     nweave.Before,
		Pointcut: pc,
		Advice: nweave.BeforeFunc(func(nweave.Joinpoint) error {
			adviceRuns++
			return nil
		}),
	}}
	target := nweave.Target{
		Name: "accounts",
		Call: func(_ any, args []any) (any, error) { return args[0], nil },
	}
	chain, err := nweave.NewChain(site(nweave.MethodCall, "Withdraw"), target, advisors)
	require.NoError(t, err)

	for _, amount := range []int{50, 500, 5000, 5} {
		result, err := chain.Call(context.Background(), nil, []any{amount})
		require.NoError(t, err)
		assert.Equal(t, amount, result)
	}
	assert.Equal(t, 2, adviceRuns)
}

func TestEvaluationFailureMeansNoMatch(t *testing.T) {
	t.Parallel()
	pc := nexpr.MustCompile(`name + 3 == 7`)
	assert.False(t, pc.Matches(site(nweave.MethodCall, "Withdraw")))
}

func TestString(t *testing.T) {
	t.Parallel()
	pc := nexpr.MustCompile(`name == "x"`)
	assert.Equal(t, `name == "x"`, pc.String())
}
