package main

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/fixture"
	"github.com/luxfi/lwe/internal/queue"
	"github.com/luxfi/lwe/internal/storage"
)

func TestWorkerPool(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()
	store := storage.NewMemoryStorage(16)

	jobs := []*queue.Job{
		{ID: "views", Fixture: "lwe-ciphertext-view-creation", Precision: lwe.Precision32, Repetitions: 1, Samples: 2, Seed: "views"},
		{ID: "keyswitch", Fixture: "lwe-ciphertext-keyswitch", Precision: lwe.Precision64, Mode: "unchecked", Repetitions: 2, Samples: 500, Seed: "keyswitch"},
		{ID: "unknown", Fixture: "bootstrap", Precision: lwe.Precision64},
		{ID: "narrow", Fixture: "lattice-glwe-encryption", Precision: lwe.Precision32},
	}
	for _, job := range jobs {
		require.NoError(t, q.Push(ctx, job))
	}

	pool := &WorkerPool{numWorkers: 2, queue: q, storage: store}
	require.NoError(t, pool.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, q.Close())
		require.NoError(t, pool.Stop())
	})

	done := func(id string) *queue.Job {
		var job *queue.Job
		require.Eventually(t, func() bool {
			var err error
			job, err = q.Get(ctx, id)
			return err == nil && (job.Status == queue.StatusPassed || job.Status == queue.StatusFailed)
		}, time.Minute, 10*time.Millisecond)
		return job
	}

	for _, id := range []string{"views", "keyswitch"} {
		job := done(id)
		require.Equal(t, queue.StatusPassed, job.Status, job.Error)

		report, err := storage.Reports{Storage: store}.Get(ctx, storage.Handle(job.ReportHandle))
		require.NoError(t, err)
		require.True(t, report.Passed())
		require.Equal(t, job.Fixture, report.Fixture)
		require.Equal(t, job.Precision, report.Precision)
	}

	job := done("unknown")
	require.Equal(t, queue.StatusFailed, job.Status)
	require.Contains(t, job.Error, "unknown fixture")
	require.Empty(t, job.ReportHandle)

	job = done("narrow")
	require.Equal(t, queue.StatusFailed, job.Status)
	require.Contains(t, job.Error, "precision")

	require.Equal(t, int64(2), pool.passedCount.Load())
	require.Equal(t, int64(2), pool.erroredCount.Load())

	rec := httptest.NewRecorder()
	pool.metricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `lwe_fixture_jobs_total{status="passed"} 2`), string(body))
}

func TestRunJobOptions(t *testing.T) {
	_, err := runJob(&queue.Job{Fixture: "lwe-ciphertext-view-creation", Precision: lwe.Precision64, Mode: "fast"})
	require.ErrorIs(t, err, fixture.ErrInvalidOptions)
	_, err = runJob(&queue.Job{Fixture: "lwe-ciphertext-view-creation", Precision: lwe.Precision64, Repetitions: fixture.MaxRepetitions + 1})
	require.ErrorIs(t, err, fixture.ErrInvalidOptions)

	report, err := runJob(&queue.Job{Fixture: "glwe-ciphertext-view-creation", Precision: lwe.Precision64, Repetitions: 1, Samples: 1, Seed: "s"})
	require.NoError(t, err)
	require.Equal(t, fixture.Checked.String(), report.Mode)
	require.NoError(t, report.Err())
}
