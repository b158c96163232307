// Package fixture runs statistical correctness fixtures against engines.
//
// A fixture walks one operation through a fixed state machine: parameter generation,
// repetition prototypes shared by a batch of samples, sample prototypes, context
// preparation, engine execution, context processing and criteria computation. Run
// accumulates the expected and actual raw values of every sample of a parameter set
// and hands them to the noise oracle once, so a single noisy sample never decides
// the outcome.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package fixture

import (
	"errors"
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/noise"
)

// Mode selects which entry point of an operation a fixture exercises.
type Mode int

const (
	Checked Mode = iota
	Unchecked
)

func (m Mode) String() string {
	if m == Unchecked {
		return "unchecked"
	}
	return "checked"
}

// ParseMode parses the output of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "checked":
		return Checked, nil
	case "unchecked":
		return Unchecked, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Outcome pairs the expected and observed raw values of one sample. A non-zero Modulus
// means the values live modulo Modulus instead of the native 2^w.
type Outcome[T lwe.Numeric] struct {
	Expected []T
	Actual   []T
	Modulus  T
}

// Fixture is one testable operation of an engine E.
//
// P is a parameter set, R the prototypes shared by a repetition, S the prototypes of
// one sample, Pre the engine inputs and Post the engine outputs. ProcessContext must
// destroy every synthesized entity it receives.
type Fixture[T lwe.Numeric, E, P, R, S, Pre, Post any] interface {
	Name() string
	Parameters() []P
	RepetitionPrototypes(m *Maker[T], p P) R
	SamplePrototypes(m *Maker[T], p P, r R) S
	PrepareContext(m *Maker[T], p P, r R, s S) Pre
	ExecuteEngine(e E, p P, pre Pre, mode Mode) (Post, error)
	ProcessContext(m *Maker[T], p P, r R, s S, pre Pre, post Post) Outcome[T]
	ComputeCriteria(p P) noise.Criteria
}

// Options controls a run.
type Options struct {
	Repetitions int
	Samples     int
	Mode        Mode
	Confidence  noise.Confidence
}

// Run size limits. Run keeps every value of a parameter set in memory until the
// oracle sees them.
const (
	MaxRepetitions = 100
	MaxSamples     = 1000
	MaxDraws       = 10000 // repetitions × samples
)

var ErrInvalidOptions = errors.New("invalid run options")

// DefaultOptions runs 10 repetitions of 100 samples on the checked entry points.
func DefaultOptions() Options {
	return Options{
		Repetitions: 10,
		Samples:     100,
		Mode:        Checked,
		Confidence:  noise.DefaultConfidence,
	}
}

// NewOptions builds options from external input. Zero counts and an empty mode keep
// the defaults.
func NewOptions(mode string, repetitions, samples int) (Options, error) {
	opts := DefaultOptions()
	var err error
	if opts.Mode, err = ParseMode(mode); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if repetitions < 0 || samples < 0 {
		return Options{}, fmt.Errorf("%w: negative repetitions or samples", ErrInvalidOptions)
	}
	if repetitions > 0 {
		opts.Repetitions = repetitions
	}
	if samples > 0 {
		opts.Samples = samples
	}
	return opts, opts.Validate()
}

// Validate checks the counts against the run size limits.
func (o Options) Validate() error {
	switch {
	case o.Repetitions < 1 || o.Repetitions > MaxRepetitions:
		return fmt.Errorf("%w: repetitions %d not in [1, %d]", ErrInvalidOptions, o.Repetitions, MaxRepetitions)
	case o.Samples < 1 || o.Samples > MaxSamples:
		return fmt.Errorf("%w: samples %d not in [1, %d]", ErrInvalidOptions, o.Samples, MaxSamples)
	case o.Repetitions*o.Samples > MaxDraws:
		return fmt.Errorf("%w: %d×%d draws exceed %d", ErrInvalidOptions, o.Repetitions, o.Samples, MaxDraws)
	}
	return nil
}

// Result is the verdict on one parameter set.
type Result struct {
	Parameters string `json:"parameters"`
	Criteria   string `json:"criteria"`
	Values     int    `json:"values"`
	Error      string `json:"error,omitempty"`

	err error
}

// Err returns the failure of the parameter set, if any.
func (r Result) Err() error {
	if r.err == nil && r.Error != "" {
		return errors.New(r.Error)
	}
	return r.err
}

// Report is the outcome of a fixture run.
type Report struct {
	Fixture   string        `json:"fixture"`
	Precision lwe.Precision `json:"precision"`
	Mode      string        `json:"mode"`
	Results   []Result      `json:"results"`
	Leaks     string        `json:"leaks,omitempty"`
}

// Passed reports whether every parameter set passed without leaking memory.
func (r Report) Passed() bool {
	return r.Err() == nil
}

// Err joins the failures of the run.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if err := res.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", r.Fixture, res.Parameters, err))
		}
	}
	if r.Leaks != "" {
		errs = append(errs, fmt.Errorf("%s: %s", r.Fixture, r.Leaks))
	}
	return errors.Join(errs...)
}

// Run drives f over every parameter set against engine e.
func Run[T lwe.Numeric, E, P, R, S, Pre, Post any](
	f Fixture[T, E, P, R, S, Pre, Post],
	e E,
	m *Maker[T],
	opts Options,
) Report {
	report := Report{
		Fixture:   f.Name(),
		Precision: lwe.PrecisionOf[T](),
		Mode:      opts.Mode.String(),
	}

	for _, p := range f.Parameters() {
		res := runParameters(f, e, m, p, opts)
		res.Parameters = fmt.Sprintf("%+v", p)
		if res.err != nil {
			res.Error = res.err.Error()
		}
		report.Results = append(report.Results, res)
	}

	if err := m.CheckLeaks(); err != nil {
		report.Leaks = err.Error()
	}
	return report
}

func runParameters[T lwe.Numeric, E, P, R, S, Pre, Post any](
	f Fixture[T, E, P, R, S, Pre, Post],
	e E,
	m *Maker[T],
	p P,
	opts Options,
) Result {
	criteria := f.ComputeCriteria(p)
	res := Result{Criteria: criteria.String()}

	var (
		expected, actual []T
		modulus          T
	)
	for range opts.Repetitions {
		r := f.RepetitionPrototypes(m, p)
		for range opts.Samples {
			s := f.SamplePrototypes(m, p, r)
			pre := f.PrepareContext(m, p, r, s)
			post, err := f.ExecuteEngine(e, p, pre, opts.Mode)
			if err != nil {
				res.err = fmt.Errorf("execute: %w", err)
				return res
			}
			out := f.ProcessContext(m, p, r, s, pre, post)
			expected = append(expected, out.Expected...)
			actual = append(actual, out.Actual...)
			modulus = out.Modulus
		}
	}
	res.Values = len(actual)

	if modulus != 0 {
		res.err = noise.CheckModular(expected, actual, modulus, criteria, opts.Confidence)
	} else {
		res.err = noise.Check(expected, actual, criteria, opts.Confidence)
	}
	return res
}
