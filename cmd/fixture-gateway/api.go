package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/fixture"
	"github.com/luxfi/lwe/internal/queue"
	"github.com/luxfi/lwe/internal/storage"
)

// SubmitRequest asks for one fixture run.
type SubmitRequest struct {
	Fixture     string        `json:"fixture"`
	Precision   lwe.Precision `json:"precision"`
	Mode        string        `json:"mode,omitempty"`
	Repetitions int           `json:"repetitions,omitempty"`
	Samples     int           `json:"samples,omitempty"`
	Seed        string        `json:"seed,omitempty"`
}

// JobResponse is the public view of a queued job.
type JobResponse struct {
	ID           string `json:"id"`
	Fixture      string `json:"fixture"`
	Precision    string `json:"precision"`
	Status       string `json:"status"`
	ReportHandle string `json:"report_handle,omitempty"`
	Error        string `json:"error,omitempty"`
}

func newJobResponse(job *queue.Job) JobResponse {
	return JobResponse{
		ID:           job.ID,
		Fixture:      job.Fixture,
		Precision:    job.Precision.String(),
		Status:       job.Status.String(),
		ReportHandle: job.ReportHandle,
		Error:        job.Error,
	}
}

type server struct {
	queue   queue.Queue
	storage storage.Storage
}

func newHandler(q queue.Queue, store storage.Storage) http.Handler {
	s := &server{queue: q, storage: store}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /fixtures", s.handleFixtures)
	mux.HandleFunc("POST /jobs", s.handleSubmit)
	mux.HandleFunc("GET /job/{id}", s.handleJob)
	mux.HandleFunc("GET /report/{handle}", s.handleReport)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func (s *server) handleFixtures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, fixture.Names())
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := fixture.Lookup(req.Fixture); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Precision != lwe.Precision32 && req.Precision != lwe.Precision64 {
		http.Error(w, "precision must be 32 or 64", http.StatusBadRequest)
		return
	}
	if _, err := fixture.NewOptions(req.Mode, req.Repetitions, req.Samples); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := &queue.Job{
		ID:          uuid.NewString(),
		Fixture:     req.Fixture,
		Precision:   req.Precision,
		Mode:        req.Mode,
		Repetitions: req.Repetitions,
		Samples:     req.Samples,
		Seed:        req.Seed,
	}
	if err := s.queue.Push(r.Context(), job); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	log.Printf("Queued job %s (fixture=%s precision=%s)", job.ID, job.Fixture, job.Precision)
	writeJSON(w, http.StatusAccepted, newJobResponse(job))
}

func (s *server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.queue.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, queue.ErrJobNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, newJobResponse(job))
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	handle, err := storage.ParseHandle(r.PathValue("handle"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := storage.Reports{Storage: s.storage}.Get(r.Context(), handle)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
