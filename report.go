package nweave

import "strings"

// Report explains, for one assembled chain, which advisors were
// bound and which were filtered out and why.
type Report struct {
	// Included lists the bound advisors in execution order.
	// The format is:
	// "INCLUDED ${aspect}#${index}/${kind}"
	Included []string

	// Excluded lists the advisors dropped during assembly.
	// The format is:
	// "EXCLUDED ${aspect}#${index}/${kind} BECAUSE ${reason}"
	Excluded []string

	// Fallback is true when the precedence relation was contradictory
	// and assembly fell back to a plain order-value sort.
	Fallback bool
}

func (r *Report) include(a Advisor) {
	r.Included = append(r.Included, "INCLUDED "+a.String())
}

func (r *Report) exclude(a Advisor, why string) {
	r.Excluded = append(r.Excluded, "EXCLUDED "+a.String()+" BECAUSE "+why)
}

func (r Report) String() string {
	lines := make([]string, 0, len(r.Included)+len(r.Excluded)+1)
	lines = append(lines, r.Included...)
	lines = append(lines, r.Excluded...)
	if r.Fallback {
		lines = append(lines, "FALLBACK contradictory precedence relation, sorted by order value only")
	}
	return strings.Join(lines, "\n")
}
