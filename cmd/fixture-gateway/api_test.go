package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/fixture"
	"github.com/luxfi/lwe/internal/queue"
	"github.com/luxfi/lwe/internal/storage"
)

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestGateway(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()
	store := storage.NewMemoryStorage(1)
	h := newHandler(q, store)

	rec := serve(h, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, "GET", "/fixtures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	require.Equal(t, fixture.Names(), names)

	rec = serve(h, "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":64,"mode":"unchecked","samples":10}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var submitted JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	_, err := uuid.Parse(submitted.ID)
	require.NoError(t, err)
	require.Equal(t, "pending", submitted.Status)
	require.Equal(t, lwe.Precision64.String(), submitted.Precision)

	job, err := q.Pop(ctx)
	require.NoError(t, err)
	require.Equal(t, submitted.ID, job.ID)
	require.Equal(t, "unchecked", job.Mode)
	require.Equal(t, 10, job.Samples)

	report := []byte(`{"fixture":"lwe-ciphertext-keyswitch","precision":64,"mode":"unchecked","results":[]}`)
	handle, err := store.Store(ctx, report)
	require.NoError(t, err)
	job.Status = queue.StatusPassed
	job.ReportHandle = string(handle)
	require.NoError(t, q.Update(ctx, job))

	rec = serve(h, "GET", "/job/"+job.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "passed", status.Status)
	require.Equal(t, string(handle), status.ReportHandle)

	rec = serve(h, "GET", "/report/"+status.ReportHandle, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, string(report), rec.Body.String())
}

func TestGatewayErrors(t *testing.T) {
	h := newHandler(queue.NewMemoryQueue(), storage.NewMemoryStorage(1))

	for _, tc := range []struct {
		name, method, target, body string
		code                       int
	}{
		{"BadBody", "POST", "/jobs", `{`, http.StatusBadRequest},
		{"UnknownFixture", "POST", "/jobs", `{"fixture":"bootstrap","precision":64}`, http.StatusBadRequest},
		{"BadPrecision", "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":16}`, http.StatusBadRequest},
		{"BadMode", "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":32,"mode":"fast"}`, http.StatusBadRequest},
		{"NegativeSamples", "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":32,"samples":-1}`, http.StatusBadRequest},
		{"TooManySamples", "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":32,"samples":1001}`, http.StatusBadRequest},
		{"TooManyRepetitions", "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":32,"repetitions":1000000000}`, http.StatusBadRequest},
		{"TooManyDraws", "POST", "/jobs", `{"fixture":"lwe-ciphertext-keyswitch","precision":32,"repetitions":100,"samples":1000}`, http.StatusBadRequest},
		{"WrongMethod", "GET", "/jobs", "", http.StatusMethodNotAllowed},
		{"MissingJob", "GET", "/job/nope", "", http.StatusNotFound},
		{"BadHandle", "GET", "/report/nope", "", http.StatusBadRequest},
		{"MissingReport", "GET", "/report/" + string(storage.ComputeHandle([]byte("x"))), "", http.StatusNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, tc.method, tc.target, tc.body)
			require.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}
