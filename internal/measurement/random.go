package measurement

import "math/rand"

// Source produces the single stochastic input the engine ever consumes: a
// uniformly distributed double in [0, 1) used by the stability test. It is
// its own interface (rather than a bare function value) so that tests can
// supply a scripted sequence without reaching into math/rand's global state.
type Source interface {
	// Float64 returns the next value in [0, 1).
	Float64() float64
}

// defaultSource wraps math/rand's top-level functions, which are safe for
// concurrent use and already seeded from a runtime source as of Go 1.20.
type defaultSource struct{}

// Float64 implements Source.Float64.
func (defaultSource) Float64() float64 {
	return rand.Float64()
}

// DefaultSource is the Source used when a caller passes no override.
var DefaultSource Source = defaultSource{}

// scriptedSource is a test double that replays a fixed sequence of values,
// repeating the final one once exhausted.
type scriptedSource struct {
	values []float64
	next   int
}

// NewScriptedSource builds a Source that returns values in order, holding on
// the last entry once the sequence is exhausted. It exists so scenario tests
// can pin the stability test's outcome at each decision point.
func NewScriptedSource(values ...float64) Source {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &scriptedSource{values: values}
}

// Float64 implements Source.Float64.
func (s *scriptedSource) Float64() float64 {
	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	return v
}
