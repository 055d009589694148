package nmanifest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muir/nweave"
	"github.com/muir/nweave/nmanifest"
)

func testRegistry(counter *int) *nmanifest.Registry {
	return nmanifest.NewRegistry().
		RegisterBefore("count", func(nweave.Joinpoint) error {
			*counter++
			return nil
		}).
		RegisterAround("passthrough", func(inv nweave.Invocation) (any, error) {
			return inv.Proceed()
		}).
		RegisterAfterFinally("noop", func(nweave.Joinpoint) {})
}

func TestLoadBindsManifestToRegistry(t *testing.T) {
	t.Parallel()
	counter := 0
	manifest := []map[string]any{
		{
			"name":  "audit",
			"order": 5,
			"advice": []map[string]any{
				{"kind": "before", "pointcut": `name == "Save"`, "use": "count"},
				{"kind": "around", "use": "passthrough"},
			},
		},
	}
	advisors, err := nmanifest.Load(manifest, testRegistry(&counter))
	require.NoError(t, err)
	require.Len(t, advisors, 2)
	assert.Equal(t, "audit", advisors[0].Aspect)
	assert.Equal(t, 5, advisors[0].Order)
	assert.Equal(t, 0, advisors[0].Index)
	assert.Equal(t, nweave.Before, advisors[0].Kind)
	assert.Equal(t, 1, advisors[1].Index)
	assert.Equal(t, nweave.Around, advisors[1].Kind)

	target := nweave.Target{
		Name: "svc",
		Call: func(_ any, args []any) (any, error) { return args[0], nil },
	}
	chain, err := nweave.NewChain(&nweave.CallSite{Kind: nweave.MethodCall, Name: "Save"}, target, advisors)
	require.NoError(t, err)
	result, err := chain.Call(context.Background(), nil, []any{"v"})
	require.NoError(t, err)
	assert.Equal(t, "v", result)
	assert.Equal(t, 1, counter)

	// the before advice only applies to Save
	chain, err = nweave.NewChain(&nweave.CallSite{Kind: nweave.MethodCall, Name: "Load"}, target, advisors)
	require.NoError(t, err)
	assert.Equal(t, 1, chain.Len())
}

func TestLoadDefaultsToLowestPrecedence(t *testing.T) {
	t.Parallel()
	counter := 0
	manifest := []map[string]any{
		{
			"name": "audit",
			"advice": []map[string]any{
				{"kind": "before", "use": "count"},
			},
		},
	}
	advisors, err := nmanifest.Load(manifest, testRegistry(&counter))
	require.NoError(t, err)
	require.Len(t, advisors, 1)
	assert.Equal(t, nweave.LowestPrecedence, advisors[0].Order)
	// an absent pointcut matches everything
	assert.True(t, advisors[0].Pointcut.Matches(&nweave.CallSite{Kind: nweave.MethodCall, Name: "Anything"}))
}

func TestLoadRejectsBadManifests(t *testing.T) {
	t.Parallel()
	counter := 0
	cases := []struct {
		name     string
		manifest []map[string]any
		want     string
	}{
		{
			name: "unknown kind",
			manifest: []map[string]any{
				{"name": "a", "advice": []map[string]any{{"kind": "sideways", "use": "count"}}},
			},
			want: `unknown kind "sideways"`,
		},
		{
			name: "missing registration",
			manifest: []map[string]any{
				{"name": "a", "advice": []map[string]any{{"kind": "before", "use": "nope"}}},
			},
			want: `no registered advice named "nope"`,
		},
		{
			name: "kind mismatch",
			manifest: []map[string]any{
				{"name": "a", "advice": []map[string]any{{"kind": "around", "use": "count"}}},
			},
			want: `registered as before, not around`,
		},
		{
			name: "missing aspect name",
			manifest: []map[string]any{
				{"advice": []map[string]any{{"kind": "before", "use": "count"}}},
			},
			want: "missing a name",
		},
		{
			name: "bad pointcut expression",
			manifest: []map[string]any{
				{"name": "a", "advice": []map[string]any{{"kind": "before", "pointcut": "name ==", "use": "count"}}},
			},
			want: "compile",
		},
		{
			name: "dynamic advice without a pointcut",
			manifest: []map[string]any{
				{"name": "a", "advice": []map[string]any{{"kind": "before", "dynamic": true, "use": "count"}}},
			},
			want: "dynamic advice requires a pointcut",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := nmanifest.Load(tc.manifest, testRegistry(&counter))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadDynamicPointcut(t *testing.T) {
	t.Parallel()
	counter := 0
	manifest := []map[string]any{
		{
			"name": "limits",
			"advice": []map[string]any{
				{"kind": "before", "pointcut": "args[0] > 100", "dynamic": true, "use": "count"},
			},
		},
	}
	advisors, err := nmanifest.Load(manifest, testRegistry(&counter))
	require.NoError(t, err)
	require.Len(t, advisors, 1)
	dp, ok := advisors[0].Pointcut.(nweave.DynamicPointcut)
	require.True(t, ok)
	assert.True(t, dp.Dynamic())

	target := nweave.Target{
		Name: "svc",
		Call: func(_ any, args []any) (any, error) { return args[0], nil },
	}
	chain, err := nweave.NewChain(&nweave.CallSite{Kind: nweave.MethodCall, Name: "Withdraw"}, target, advisors)
	require.NoError(t, err)
	for _, amount := range []int{5, 500} {
		_, err := chain.Call(context.Background(), nil, []any{amount})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, counter)
}
