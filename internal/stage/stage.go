// Package stage maps remaining time onto a discrete, ordered set of named
// animation-intensity configurations. The mapping is theme-agnostic: any
// renderer can ask which stage the countdown is in and how far through it.
package stage

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Threshold is the lower bound of remaining time at which a stage applies,
// expressed either as an absolute duration or as a fraction of a reference
// total countdown length.
type Threshold struct {
	Duration   time.Duration
	Fraction   float64
	Fractional bool
}

// Absolute returns a threshold at a fixed duration of remaining time.
func Absolute(d time.Duration) Threshold {
	return Threshold{Duration: d}
}

// Fraction returns a threshold at a fraction (0-1) of the reference total.
func Fraction(f float64) Threshold {
	return Threshold{Fraction: f, Fractional: true}
}

// resolve converts the threshold to an absolute duration.
func (t Threshold) resolve(referenceTotal time.Duration) time.Duration {
	if t.Fractional {
		return time.Duration(float64(referenceTotal) * t.Fraction)
	}
	return t.Duration
}

func (t Threshold) isZero() bool {
	if t.Fractional {
		return t.Fraction == 0
	}
	return t.Duration == 0
}

// Stage is one named intensity bucket with an opaque values payload
// (coverage ratio, tick interval, turnover ratio, and so on) interpreted by
// the renderer.
type Stage struct {
	Name      string
	Threshold Threshold
	Values    map[string]float64
}

// Resolved is the outcome of a stage lookup: the matched stage, its
// threshold resolved to an absolute duration, and how far through the stage
// the countdown currently is (0 at the stage's start, 1 at its end).
type Resolved struct {
	Stage     Stage
	Threshold time.Duration
	Progress  float64
}

// ErrEmptyTable indicates a table with no stages.
var ErrEmptyTable = errors.New("stage table has no stages")

// ErrUnreachableFinal indicates a table whose last stage has a non-zero
// threshold, which would leave small remaining values unresolvable.
var ErrUnreachableFinal = errors.New("final stage threshold must be zero")

// Table is an ordered stage table. Stages must be listed in descending
// threshold order; lookup is first-match-wins scanning that order, and the
// final stage's zero threshold guarantees every non-negative remaining time
// resolves to some stage.
type Table struct {
	mu     sync.Mutex
	stages []Stage
	cache  map[time.Duration][]time.Duration
}

// NewTable validates and builds a stage table. The last stage must carry a
// zero threshold.
func NewTable(stages []Stage) (*Table, error) {
	if len(stages) == 0 {
		return nil, ErrEmptyTable
	}
	if !stages[len(stages)-1].Threshold.isZero() {
		return nil, ErrUnreachableFinal
	}
	for i, s := range stages {
		if s.Name == "" {
			return nil, fmt.Errorf("stage %d has no name", i)
		}
	}
	copied := make([]Stage, len(stages))
	copy(copied, stages)
	return &Table{
		stages: copied,
		cache:  make(map[time.Duration][]time.Duration),
	}, nil
}

// Resolve returns the stage covering the given remaining time. Thresholds
// are resolved against referenceTotal (memoized per reference, since the
// table is static) and scanned in order; the first stage whose threshold
// does not exceed the remaining time wins.
func (t *Table) Resolve(remaining, referenceTotal time.Duration) Resolved {
	if remaining < 0 {
		remaining = 0
	}
	thresholds := t.thresholdsFor(referenceTotal)

	for i, lower := range thresholds {
		if remaining < lower {
			continue
		}
		upper := referenceTotal
		if i > 0 {
			upper = thresholds[i-1]
		}
		return Resolved{
			Stage:     t.stages[i],
			Threshold: lower,
			Progress:  progress(remaining, lower, upper),
		}
	}

	// Unreachable for a validated table; the final zero threshold matches
	// any non-negative remaining time.
	last := len(t.stages) - 1
	return Resolved{Stage: t.stages[last], Progress: 1}
}

// ClearCache invalidates the memoized threshold resolutions. Rarely needed;
// a fixed reference duration is the common case.
func (t *Table) ClearCache() {
	t.mu.Lock()
	t.cache = make(map[time.Duration][]time.Duration)
	t.mu.Unlock()
}

func (t *Table) thresholdsFor(referenceTotal time.Duration) []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cached, ok := t.cache[referenceTotal]; ok {
		return cached
	}
	resolved := make([]time.Duration, len(t.stages))
	for i, s := range t.stages {
		resolved[i] = s.Threshold.resolve(referenceTotal)
	}
	t.cache[referenceTotal] = resolved
	return resolved
}

// progress computes how far through [lower, upper) the countdown is, with 0
// at upper (stage just entered) and 1 at lower (stage about to end).
func progress(remaining, lower, upper time.Duration) float64 {
	if upper <= lower {
		return 1
	}
	if remaining > upper {
		return 0
	}
	p := float64(upper-remaining) / float64(upper-lower)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Value names used by the default table.
const (
	ValueCoverage     = "coverage"
	ValueTickInterval = "tick_interval"
	ValueTurnover     = "turnover"
)

// DefaultTable returns the stage table used by the built-in renderers.
// Intensity rises as the target approaches.
func DefaultTable() *Table {
	t, err := NewTable([]Stage{
		{
			Name:      "distant",
			Threshold: Fraction(0.5),
			Values:    map[string]float64{ValueCoverage: 0.15, ValueTickInterval: 4, ValueTurnover: 0.05},
		},
		{
			Name:      "approaching",
			Threshold: Fraction(0.2),
			Values:    map[string]float64{ValueCoverage: 0.35, ValueTickInterval: 2, ValueTurnover: 0.15},
		},
		{
			Name:      "imminent",
			Threshold: Absolute(time.Minute),
			Values:    map[string]float64{ValueCoverage: 0.6, ValueTickInterval: 1, ValueTurnover: 0.3},
		},
		{
			Name:      "final",
			Threshold: Absolute(10 * time.Second),
			Values:    map[string]float64{ValueCoverage: 0.85, ValueTickInterval: 0.5, ValueTurnover: 0.5},
		},
		{
			Name:      "critical",
			Threshold: Absolute(0),
			Values:    map[string]float64{ValueCoverage: 1, ValueTickInterval: 0.25, ValueTurnover: 0.8},
		},
	})
	if err != nil {
		// The default table is static; a validation failure here is a
		// programming error.
		panic(err)
	}
	return t
}
