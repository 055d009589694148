// Package nexpr provides pointcuts compiled from expression strings.
//
// Expressions use the expr language (github.com/expr-lang/expr) and
// must evaluate to a boolean.  Static pointcuts see the variables:
//
//	kind   the call-site kind ("method", "constructor", ...)
//	owner  the name of the declaring type, or ""
//	name   the method, constructor, or field name
//
// Dynamic pointcuts additionally see, at call time:
//
//	receiver  the live receiver
//	args      the live argument list
//
// Compilation errors surface from Compile, at assembly time; an
// expression that fails to evaluate at match time simply does not
// match.
package nexpr

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/muir/nweave"
)

// Pointcut is a nweave.Pointcut compiled from an expression string.
type Pointcut struct {
	src     string
	program *vm.Program
	dynamic bool
}

var _ nweave.DynamicPointcut = &Pointcut{}

// Compile builds a static pointcut: the expression is evaluated once
// per call site, during chain assembly.
func Compile(src string) (*Pointcut, error) {
	program, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("nexpr: compile %q: %w", src, err)
	}
	return &Pointcut{src: src, program: program}, nil
}

// CompileCall builds a dynamic pointcut whose expression can also
// reference the live receiver and arguments.  Dynamic pointcuts make
// the final match decision per call; chains containing one are
// assembled with invocation exposure.
func CompileCall(src string) (*Pointcut, error) {
	p, err := Compile(src)
	if err != nil {
		return nil, err
	}
	p.dynamic = true
	return p, nil
}

// MustCompile is a wrapper for Compile.  It panics if Compile
// returns error.
func MustCompile(src string) *Pointcut {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// MustCompileCall is a wrapper for CompileCall.  It panics if
// CompileCall returns error.
func MustCompileCall(src string) *Pointcut {
	p, err := CompileCall(src)
	if err != nil {
		panic(err)
	}
	return p
}

func siteEnv(site *nweave.CallSite) map[string]any {
	owner := ""
	if site.Owner != nil {
		owner = site.Owner.String()
	}
	return map[string]any{
		"kind":  site.Kind.String(),
		"owner": owner,
		"name":  site.Name,
	}
}

func (p *Pointcut) run(env map[string]any) bool {
	out, err := vm.Run(p.program, env)
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

// Matches evaluates the expression against the static call site.  A
// dynamic pointcut always matches statically because it cannot
// decide without the live call; the real decision happens in
// MatchesCall.
func (p *Pointcut) Matches(site *nweave.CallSite) bool {
	if p.dynamic {
		return true
	}
	return p.run(siteEnv(site))
}

// Dynamic reports whether the pointcut was built with CompileCall.
func (p *Pointcut) Dynamic() bool { return p.dynamic }

// MatchesCall evaluates the expression with the live call state.
func (p *Pointcut) MatchesCall(jp nweave.Joinpoint) bool {
	env := siteEnv(jp.StaticPart())
	env["receiver"] = jp.Receiver()
	env["args"] = jp.Arguments()
	return p.run(env)
}

func (p *Pointcut) String() string { return p.src }
