// Package fallback implements resolution of a working resource from an
// ordered list of candidates. It is shared by AI backend selection and
// screen-capture method selection so both degrade the same way.
package fallback

import "context"

// Candidate is a named resource option with a probe that reports whether the
// resource is currently usable. Probes must be side-effect-free or idempotent
// so resolution can be repeated safely after the environment changes.
type Candidate[T any] struct {
	Name  string
	Value T
	Probe func(ctx context.Context) error
}

// Attempt records the outcome of probing a single candidate.
type Attempt struct {
	Name string
	Err  error
}

// OK reports whether the probe succeeded.
func (a Attempt) OK() bool {
	return a.Err == nil
}

// Resolve probes candidates strictly in order and returns the first one whose
// probe succeeds, along with the attempt ledger. A probe failure is non-fatal:
// it is recorded and the next candidate is tried. If every probe fails the
// returned candidate is nil and the ledger holds exactly one entry per
// candidate, in input order. Callers must treat a nil result as "feature
// unavailable", not as an error.
func Resolve[T any](ctx context.Context, candidates []Candidate[T]) (*Candidate[T], []Attempt) {
	attempts := make([]Attempt, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		err := c.Probe(ctx)
		attempts = append(attempts, Attempt{Name: c.Name, Err: err})
		if err == nil {
			return c, attempts
		}
	}

	return nil, attempts
}
