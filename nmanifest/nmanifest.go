// Package nmanifest builds advisor sets from declarative manifests.
//
// A manifest is plain data, usually decoded from JSON or YAML into
// []map[string]any.  Behavior never comes from the manifest: every
// advice entry names an implementation registered in a Registry, and
// Load binds the two together into advisors ready for a
// nweave.Weaver or nweave.NewChain.  All manifest mistakes (unknown
// kinds, missing registrations, kind mismatches, bad pointcut
// expressions) are reported by Load, before any call runs.
package nmanifest

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/muir/nweave"
	"github.com/muir/nweave/nexpr"
)

// AdviceDef declares one advisor inside an aspect definition.
type AdviceDef struct {
	// Kind is one of "around", "before", "afterReturning",
	// "afterThrowing", "afterFinally".
	Kind string

	// Pointcut is a nexpr expression selecting call sites.  Empty
	// matches everything.
	Pointcut string

	// Dynamic makes the pointcut re-evaluate per call with the live
	// receiver and arguments.
	Dynamic bool

	// Use names a registered advice implementation.
	Use string
}

// AspectDef declares a named aspect.
type AspectDef struct {
	Name string

	// Order is the aspect-level order value.  Absent means lowest
	// precedence.
	Order *int

	Advice []AdviceDef
}

var kinds = map[string]nweave.Kind{
	"around":         nweave.Around,
	"before":         nweave.Before,
	"afterReturning": nweave.AfterReturning,
	"afterThrowing":  nweave.AfterThrowing,
	"afterFinally":   nweave.AfterFinally,
}

type registered struct {
	kind   nweave.Kind
	advice any
}

// Registry maps advice names to implementations.  Registration is
// typed by kind so that a manifest that names an implementation
// under the wrong kind is caught by Load.
//
// Registry is not safe for concurrent mutation; register everything
// before calling Load.
type Registry struct {
	advice map[string]registered
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{advice: make(map[string]registered)}
}

func (r *Registry) add(name string, kind nweave.Kind, advice any) *Registry {
	r.advice[name] = registered{kind: kind, advice: advice}
	return r
}

// RegisterAround registers around advice under a name.
func (r *Registry) RegisterAround(name string, advice nweave.InterceptorFunc) *Registry {
	return r.add(name, nweave.Around, nweave.Interceptor(advice))
}

// RegisterBefore registers before advice under a name.
func (r *Registry) RegisterBefore(name string, advice nweave.BeforeFunc) *Registry {
	return r.add(name, nweave.Before, advice)
}

// RegisterAfterReturning registers after-returning advice under a
// name.
func (r *Registry) RegisterAfterReturning(name string, advice nweave.AfterReturningFunc) *Registry {
	return r.add(name, nweave.AfterReturning, advice)
}

// RegisterAfterThrowing registers after-throwing advice under a name.
func (r *Registry) RegisterAfterThrowing(name string, advice nweave.AfterThrowingFunc) *Registry {
	return r.add(name, nweave.AfterThrowing, advice)
}

// RegisterAfterFinally registers after-finally advice under a name.
func (r *Registry) RegisterAfterFinally(name string, advice nweave.AfterFinallyFunc) *Registry {
	return r.add(name, nweave.AfterFinally, advice)
}

// Load decodes a list of aspect definitions (raw maps or AspectDef
// values, anything mapstructure can handle) and binds them against
// the registry.
func Load(defs any, registry *Registry) ([]nweave.Advisor, error) {
	var aspects []AspectDef
	if err := mapstructure.Decode(defs, &aspects); err != nil {
		return nil, fmt.Errorf("nmanifest: decode manifest: %w", err)
	}
	var advisors []nweave.Advisor
	for _, def := range aspects {
		if def.Name == "" {
			return nil, fmt.Errorf("nmanifest: aspect definition missing a name")
		}
		order := nweave.LowestPrecedence
		if def.Order != nil {
			order = *def.Order
		}
		for i, ad := range def.Advice {
			kind, ok := kinds[ad.Kind]
			if !ok {
				return nil, fmt.Errorf("nmanifest: aspect %s advice #%d: unknown kind %q", def.Name, i, ad.Kind)
			}
			entry, ok := registry.advice[ad.Use]
			if !ok {
				return nil, fmt.Errorf("nmanifest: aspect %s advice #%d: no registered advice named %q", def.Name, i, ad.Use)
			}
			if entry.kind != kind {
				return nil, fmt.Errorf("nmanifest: aspect %s advice #%d: %q is registered as %s, not %s",
					def.Name, i, ad.Use, entry.kind, kind)
			}
			pc, err := compilePointcut(ad)
			if err != nil {
				return nil, fmt.Errorf("nmanifest: aspect %s advice #%d: %w", def.Name, i, err)
			}
			advisors = append(advisors, nweave.Advisor{
				Aspect:   def.Name,
				Order:    order,
				Index:    i,
				Kind:     kind,
				Pointcut: pc,
				Advice:   entry.advice,
			})
		}
	}
	return advisors, nil
}

func compilePointcut(ad AdviceDef) (nweave.Pointcut, error) {
	if ad.Pointcut == "" {
		if ad.Dynamic {
			return nil, fmt.Errorf("dynamic advice requires a pointcut expression")
		}
		return nweave.MatchAll(), nil
	}
	if ad.Dynamic {
		return nexpr.CompileCall(ad.Pointcut)
	}
	return nexpr.Compile(ad.Pointcut)
}
