package nweave

import "sort"

// Ordering is the result of comparing two items under a partial
// order.  Incomparable pairs have no defined relation and keep their
// original relative order.
type Ordering int

const (
	// Less means the first item precedes the second.  For advisors,
	// preceding means higher precedence: first on the way in, last on
	// the way out.
	Less Ordering = iota
	// Greater means the first item follows the second.
	Greater
	// Incomparable means the pair has no defined relation.
	Incomparable
)

// SortPartial sorts items under a three-valued partial order.  It
// builds a constraint graph from every comparable pair and runs
// Kahn's algorithm, always emitting the lowest original index among
// the unconstrained items, so results are deterministic and
// incomparable pairs retain their input order.
//
// SortPartial is a pure function of its inputs and is safe to call
// concurrently.  When the relation is contradictory (a constraint
// cycle) it returns ok=false rather than panicking; callers are
// expected to fall back to a simpler total order.
func SortPartial[T any](items []T, cmp func(a, b T) Ordering) (sorted []T, ok bool) {
	n := len(items)
	// after[i] holds the items that must precede i; before[i] holds
	// the items that must follow i.
	after := make([]map[int]struct{}, n)
	before := make([]map[int]struct{}, n)
	for i := 0; i < n; i++ {
		after[i] = make(map[int]struct{})
		before[i] = make(map[int]struct{})
	}
	constrain := func(first, second int) {
		after[second][first] = struct{}{}
		before[first][second] = struct{}{}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch cmp(items[i], items[j]) {
			case Less:
				constrain(i, j)
			case Greater:
				constrain(j, i)
			}
		}
	}

	var free intHeap
	for i := 0; i < n; i++ {
		if len(after[i]) == 0 {
			free.push(i)
		}
	}
	out := make([]T, 0, n)
	for free.Len() > 0 {
		i := free.pop()
		out = append(out, items[i])
		followers := make([]int, 0, len(before[i]))
		for f := range before[i] {
			followers = append(followers, f)
		}
		sort.Ints(followers) // determanistic behavior
		for _, f := range followers {
			delete(after[f], i)
			if len(after[f]) == 0 {
				free.push(f)
			}
		}
	}
	if len(out) < n {
		// found a precedence loop
		return nil, false
	}
	return out, true
}

type groupKey struct {
	aspect string
	order  int
}

// advisorComparator returns the three-valued precedence relation for
// one advisor set:
//
//   - lower order value precedes higher (runs first on the way in)
//   - advisors from different aspects with equal order are
//     incomparable
//   - within one (aspect, order) group, declaration position decides:
//     first-declared precedes, unless the group contains any
//     after-like advice, in which case the whole group flips to
//     last-declared-precedes so that later declarations wrap tighter
//     on the way out
//
// The flip is decided per group, not per pair: a group mixing before
// and after advice from the same aspect is flipped as a whole.
func advisorComparator(advisors []Advisor) func(a, b Advisor) Ordering {
	flipped := make(map[groupKey]bool)
	for _, a := range advisors {
		if a.Kind.afterLike() {
			flipped[groupKey{aspect: a.Aspect, order: a.Order}] = true
		}
	}
	return func(a, b Advisor) Ordering {
		if a.Order != b.Order {
			if a.Order < b.Order {
				return Less
			}
			return Greater
		}
		if a.Aspect != b.Aspect || a.Index == b.Index {
			return Incomparable
		}
		less := a.Index < b.Index
		if flipped[groupKey{aspect: a.Aspect, order: a.Order}] {
			less = !less
		}
		if less {
			return Less
		}
		return Greater
	}
}

// sortAdvisors produces the total execution order for an advisor
// set.  When the precedence relation turns out to be contradictory
// it fails soft: the advisors are sorted by order value alone, ties
// broken by input position, and ok is false so the caller can record
// that the fallback was used.
func sortAdvisors(advisors []Advisor) (sorted []Advisor, ok bool) {
	sorted, ok = SortPartial(advisors, advisorComparator(advisors))
	if ok {
		return sorted, true
	}
	sorted = make([]Advisor, len(advisors))
	copy(sorted, advisors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted, false
}
