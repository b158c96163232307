// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/core"
	"github.com/luxfi/lwe/memory"
	"github.com/luxfi/lwe/noise"
)

// Samples per repetition, sized so that every statistical parameter set accumulates
// at least a thousand values over two repetitions.
var fixtureSamples = map[string]int{
	"lwe-ciphertext-view-creation":      20,
	"lwe-ciphertext-mut-view-creation":  20,
	"lwe-ciphertext-mut-view-retrieval": 20,
	"glwe-ciphertext-view-creation":     10,
	"glwe-ciphertext-mut-view-creation": 10,
	"glwe-ciphertext-view-retrieval":    10,
	"lwe-ciphertext-vector-encryption":  50,
	"glwe-ciphertext-decryption":        2,
	"lwe-ciphertext-keyswitch":          500,
	"lattice-glwe-encryption":           1,
}

func TestFixtures(t *testing.T) {
	require.ElementsMatch(t, Names(), keys(fixtureSamples))

	for _, name := range Names() {
		run, err := Lookup(name)
		require.NoError(t, err)

		for _, precision := range []lwe.Precision{lwe.Precision32, lwe.Precision64} {
			for _, mode := range []Mode{Checked, Unchecked} {
				t.Run(name+"/"+precision.String()+"/"+mode.String(), func(t *testing.T) {
					opts := Options{
						Repetitions: 2,
						Samples:     fixtureSamples[name],
						Mode:        mode,
						Confidence:  noise.DefaultConfidence,
					}

					report, err := run([]byte(t.Name()), precision, opts)
					if name == "lattice-glwe-encryption" && precision == lwe.Precision32 {
						require.ErrorIs(t, err, ErrUnsupportedPrecision)
						return
					}
					require.NoError(t, err)
					require.NoError(t, report.Err())
					require.True(t, report.Passed())
					require.Equal(t, precision, report.Precision)
					require.Equal(t, mode.String(), report.Mode)
					require.NotEmpty(t, report.Results)
					for _, res := range report.Results {
						require.Positive(t, res.Values)
					}
				})
			}
		}
	}
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestLookup(t *testing.T) {
	_, err := Lookup("bootstrap")
	require.ErrorIs(t, err, ErrUnknownFixture)

	mode, err := ParseMode("unchecked")
	require.NoError(t, err)
	require.Equal(t, Unchecked, mode)
	mode, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, Checked, mode)
	_, err = ParseMode("fast")
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	opts, err := NewOptions("", 0, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultOptions(), opts)

	opts, err = NewOptions("unchecked", 3, 7)
	require.NoError(t, err)
	require.Equal(t, Options{Repetitions: 3, Samples: 7, Mode: Unchecked, Confidence: noise.DefaultConfidence}, opts)

	for _, tc := range []struct {
		mode                 string
		repetitions, samples int
	}{
		{"fast", 1, 1},
		{"", -1, 1},
		{"", 1, -1},
		{"", MaxRepetitions + 1, 1},
		{"", 1, MaxSamples + 1},
		{"", MaxRepetitions, MaxSamples},
	} {
		_, err := NewOptions(tc.mode, tc.repetitions, tc.samples)
		require.ErrorIs(t, err, ErrInvalidOptions, "%+v", tc)
	}

	run, err := Lookup("lwe-ciphertext-view-creation")
	require.NoError(t, err)
	_, err = run(nil, lwe.Precision64, Options{Repetitions: 1, Samples: MaxSamples + 1})
	require.ErrorIs(t, err, ErrInvalidOptions)
	_, err = run(nil, lwe.Precision64, Options{})
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestZeroVarianceEncryptionIsExact(t *testing.T) {
	testZeroVarianceEncryptionIsExact[uint32](t)
	testZeroVarianceEncryptionIsExact[uint64](t)
}

func testZeroVarianceEncryptionIsExact[T lwe.Numeric](t *testing.T) {
	m, err := NewMaker[T]([]byte("zero"))
	require.NoError(t, err)
	e, err := m.NewEngine("zero")
	require.NoError(t, err)

	f := LweCiphertextVectorEncryption[T]()
	p := f.Parameters()[0]
	require.Equal(t, lwe.LweDimension(512), p.Dimension)
	require.Zero(t, p.Variance)

	r := f.RepetitionPrototypes(m, p)
	s := f.SamplePrototypes(m, p, r)
	require.Equal(t, make([]T, 100), s)

	pre := f.PrepareContext(m, p, r, s)
	post, err := f.ExecuteEngine(e, p, pre, Checked)
	require.NoError(t, err)
	out := f.ProcessContext(m, p, r, s, pre, post)
	require.Equal(t, make([]T, 100), out.Actual)
	require.NoError(t, m.CheckLeaks())
}

func TestMakerRecyclesBuffers(t *testing.T) {
	m, err := NewMaker[uint32]([]byte("pool"))
	require.NoError(t, err)

	raw := m.RandomRawVec(513)
	buf := m.SynthesizeBuffer(raw)
	require.Equal(t, int64(513), m.pool.Live())
	require.ErrorIs(t, m.CheckLeaks(), memory.ErrLeak)
	require.Equal(t, raw, m.UnsynthesizeBuffer(buf))
	require.Zero(t, m.pool.Live())

	// A recycled region comes back zeroed before the copy.
	again := m.SynthesizeBuffer(make([]uint32, 513))
	require.Equal(t, make([]uint32, 513), again.Data())
	m.UnsynthesizeBuffer(again)
	require.NoError(t, m.CheckLeaks())

	e, err := m.NewEngine("pool")
	require.NoError(t, err)
	report := Run(LweCiphertextMutViewRetrieval[uint32](), e, m, Options{Repetitions: 3, Samples: 4, Mode: Checked, Confidence: noise.DefaultConfidence})
	require.True(t, report.Passed(), report.Err())
	require.Zero(t, m.pool.Live())
}

// corrupting flips a bit of every retrieved container.
type corrupting[T lwe.Numeric] struct {
	Fixture[T, *core.Engine[T], LweParameters, struct{}, []T, *core.LweCiphertextMutView[T], *memory.Buffer[T]]
}

func (c corrupting[T]) ProcessContext(m *Maker[T], p LweParameters, r struct{}, s []T, pre *core.LweCiphertextMutView[T], buf *memory.Buffer[T]) Outcome[T] {
	buf.Data()[0] ^= 1
	return c.Fixture.ProcessContext(m, p, r, s, pre, buf)
}

// leaking never hands retrieved containers back.
type leaking[T lwe.Numeric] struct {
	Fixture[T, *core.Engine[T], LweParameters, struct{}, []T, *core.LweCiphertextMutView[T], *memory.Buffer[T]]
}

func (leaking[T]) ProcessContext(_ *Maker[T], _ LweParameters, _ struct{}, s []T, _ *core.LweCiphertextMutView[T], buf *memory.Buffer[T]) Outcome[T] {
	return Outcome[T]{Expected: s, Actual: append([]T(nil), buf.Data()...)}
}

func TestHarnessDetectsFailures(t *testing.T) {
	opts := DefaultOptions()
	opts.Repetitions, opts.Samples = 1, 3

	t.Run("Mismatch", func(t *testing.T) {
		m, err := NewMaker[uint64]([]byte("mismatch"))
		require.NoError(t, err)
		e, err := m.NewEngine("mismatch")
		require.NoError(t, err)

		var f Fixture[uint64, *core.Engine[uint64], LweParameters, struct{}, []uint64, *core.LweCiphertextMutView[uint64], *memory.Buffer[uint64]] = corrupting[uint64]{LweCiphertextMutViewRetrieval[uint64]()}
		report := Run(f, e, m, opts)
		require.False(t, report.Passed())
		require.Len(t, report.Results, 3)
		for _, res := range report.Results {
			require.ErrorIs(t, res.Err(), noise.ErrNotExact)
		}
		require.Empty(t, report.Leaks)
	})

	t.Run("Leak", func(t *testing.T) {
		m, err := NewMaker[uint32]([]byte("leak"))
		require.NoError(t, err)
		e, err := m.NewEngine("leak")
		require.NoError(t, err)

		var f Fixture[uint32, *core.Engine[uint32], LweParameters, struct{}, []uint32, *core.LweCiphertextMutView[uint32], *memory.Buffer[uint32]] = leaking[uint32]{LweCiphertextMutViewRetrieval[uint32]()}
		report := Run(f, e, m, opts)
		require.NotEmpty(t, report.Leaks)
		require.ErrorIs(t, m.CheckLeaks(), memory.ErrLeak)
		require.False(t, report.Passed())
	})

	t.Run("ReportRoundTrip", func(t *testing.T) {
		report := Report{
			Fixture:   "lwe-ciphertext-keyswitch",
			Precision: lwe.Precision64,
			Mode:      Checked.String(),
			Results:   []Result{{Parameters: "{}", Criteria: "exact", Values: 3, Error: "boom"}},
		}
		data, err := json.Marshal(report)
		require.NoError(t, err)

		var decoded Report
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.EqualError(t, decoded.Results[0].Err(), "boom")
		require.False(t, decoded.Passed())
	})
}
