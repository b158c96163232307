// Package noise decides whether observed ciphertext errors follow a declared noise
// distribution.
//
// The oracle compares paired expected and actual decryptions. Errors are read as
// signed torus values, that is divided by the modulus after centering. A zero
// declared variance demands bit-exact equality; otherwise the sample mean is z-tested
// against zero and the sample variance against a chi-squared interval built with the
// Wilson-Hilferty approximation. Both tests run at significance 1-Confidence, so a
// correct implementation fails a single Check with probability at most 2(1-Confidence).
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/constraints"

	"github.com/luxfi/lwe"
)

var (
	ErrLengthMismatch     = errors.New("expected and actual sample counts differ")
	ErrTooFewSamples      = errors.New("at least two samples are required")
	ErrInvalidConfidence  = errors.New("confidence must lie in (0, 1)")
	ErrNotExact           = errors.New("noiseless sample differs from its expected value")
	ErrMeanOutOfRange     = errors.New("error mean is not centered")
	ErrVarianceOutOfRange = errors.New("error variance does not match the criteria")
)

// Confidence is the per-test confidence level.
type Confidence float64

const (
	DefaultConfidence Confidence = 0.999
	LowConfidence     Confidence = 0.99
)

// Criteria declares the distribution a batch of errors must follow.
type Criteria struct {
	// Variance is the torus variance of the error. Zero means no error at all.
	Variance lwe.Variance
	// Bounded turns Variance into an upper bound: smaller observed variances pass.
	Bounded bool
}

// Exact is the criteria of a noiseless computation.
func Exact() Criteria { return Criteria{} }

// Gaussian is the criteria of an error of variance v.
func Gaussian(v lwe.Variance) Criteria { return Criteria{Variance: v} }

// AtMost is the criteria of an error whose variance is bounded by v.
func AtMost(v lwe.Variance) Criteria { return Criteria{Variance: v, Bounded: true} }

func (c Criteria) String() string {
	switch {
	case c.Variance == 0:
		return "exact"
	case c.Bounded:
		return fmt.Sprintf("variance<=%.3g", float64(c.Variance))
	default:
		return fmt.Sprintf("variance=%.3g", float64(c.Variance))
	}
}

// Check verifies the errors actual-expected over the native modulus 2^w of T.
func Check[T lwe.Numeric](expected, actual []T, c Criteria, conf Confidence) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("%w: %d expected, %d actual", ErrLengthMismatch, len(expected), len(actual))
	}
	if c.Variance == 0 {
		for i := range expected {
			if expected[i] != actual[i] {
				return fmt.Errorf("%w: sample %d: expected %d, got %d", ErrNotExact, i, expected[i], actual[i])
			}
		}
		return nil
	}

	errs := make([]float64, len(expected))
	for i := range expected {
		errs[i] = lwe.ToTorus(actual[i] - expected[i])
	}
	return checkErrors(errs, c, conf)
}

// CheckModular verifies the errors actual-expected over an arbitrary modulus q, which
// must be below half the range of T.
func CheckModular[T constraints.Unsigned](expected, actual []T, q T, c Criteria, conf Confidence) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("%w: %d expected, %d actual", ErrLengthMismatch, len(expected), len(actual))
	}

	errs := make([]float64, len(expected))
	for i := range expected {
		d := (actual[i]%q + q - expected[i]%q) % q
		if c.Variance == 0 && d != 0 {
			return fmt.Errorf("%w: sample %d: expected %d, got %d", ErrNotExact, i, expected[i], actual[i])
		}
		errs[i] = centered(d, q) / float64(q)
	}
	if c.Variance == 0 {
		return nil
	}
	return checkErrors(errs, c, conf)
}

func centered[T constraints.Unsigned](d, q T) float64 {
	if d > q/2 {
		return -float64(q - d)
	}
	return float64(d)
}

func checkErrors(errs []float64, c Criteria, conf Confidence) error {
	if !(conf > 0 && conf < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, float64(conf))
	}
	if len(errs) < 2 {
		return ErrTooFewSamples
	}

	n := float64(len(errs))
	v := float64(c.Variance)
	alpha := 1 - float64(conf)

	mean, err := stats.Mean(errs)
	if err != nil {
		return fmt.Errorf("sample mean: %w", err)
	}
	s2, err := stats.SampleVariance(errs)
	if err != nil {
		return fmt.Errorf("sample variance: %w", err)
	}

	zc := stats.NormPpf(1-alpha/2, 0, 1)
	df := n - 1
	chi2 := df * s2 / v
	if c.Bounded {
		upper := chiSquaredQuantile(df, stats.NormPpf(1-alpha, 0, 1))
		if chi2 > upper {
			return fmt.Errorf("%w: sample variance %.3g over %d samples exceeds bound (%s)",
				ErrVarianceOutOfRange, s2, len(errs), c)
		}
	} else {
		lower, upper := chiSquaredQuantile(df, -zc), chiSquaredQuantile(df, zc)
		if chi2 < lower || chi2 > upper {
			return fmt.Errorf("%w: sample variance %.3g over %d samples, interval [%.3g, %.3g] (%s)",
				ErrVarianceOutOfRange, s2, len(errs), lower*v/df, upper*v/df, c)
		}
	}

	// The mean is tested once the spread is known to be right.
	if z := mean / math.Sqrt(v/n); math.Abs(z) > zc {
		return fmt.Errorf("%w: mean %.3g over %d samples, z=%.2f exceeds %.2f (%s)",
			ErrMeanOutOfRange, mean, len(errs), z, zc, c)
	}
	return nil
}

// chiSquaredQuantile approximates the quantile of a chi-squared law with df degrees of
// freedom whose standard normal counterpart is z (Wilson-Hilferty).
func chiSquaredQuantile(df, z float64) float64 {
	h := 2 / (9 * df)
	q := 1 - h + z*math.Sqrt(h)
	if q < 0 {
		return 0
	}
	return df * q * q * q
}
