// Package storage keeps fixture reports addressed by the BLAKE3 hash of their content.
package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/luxfi/lwe/fixture"
)

// Common errors.
var (
	ErrNotFound      = errors.New("report not found")
	ErrStorageFull   = errors.New("storage capacity exceeded")
	ErrInvalidHandle = errors.New("invalid report handle")
	ErrInvalidReport = errors.New("data is not a fixture report")
	ErrCorrupt       = errors.New("stored report does not match its handle")
)

// Handle uniquely identifies a stored report.
type Handle string

// ComputeHandle derives the handle of data.
func ComputeHandle(data []byte) Handle {
	hash := blake3.Sum256(data)
	return Handle(hex.EncodeToString(hash[:]))
}

// ParseHandle validates an externally supplied handle.
func ParseHandle(s string) (Handle, error) {
	if len(s) != 64 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	return Handle(s), nil
}

// checkReport rejects anything that is not a JSON object naming a fixture.
func checkReport(data []byte) error {
	var head struct {
		Fixture string `json:"fixture"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	if head.Fixture == "" {
		return fmt.Errorf("%w: no fixture name", ErrInvalidReport)
	}
	return nil
}

// verify checks loaded data against the handle it was stored under.
func verify(handle Handle, data []byte) ([]byte, error) {
	if ComputeHandle(data) != handle {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, handle)
	}
	return data, nil
}

// Storage defines the interface for report storage. Store accepts only fixture
// reports in JSON and Load verifies the content hash.
type Storage interface {
	// Store saves data and returns its handle.
	Store(ctx context.Context, data []byte) (Handle, error)
	// Load retrieves data by handle.
	Load(ctx context.Context, handle Handle) ([]byte, error)
	// Delete removes data.
	Delete(ctx context.Context, handle Handle) error
	// Exists checks if a handle is stored.
	Exists(ctx context.Context, handle Handle) (bool, error)
	// Close closes the storage.
	Close() error
}

// MemoryStorage implements in-memory storage with a byte capacity.
type MemoryStorage struct {
	mu       sync.RWMutex
	data     map[Handle][]byte
	capacity int64
	size     int64
}

// NewMemoryStorage creates a new in-memory storage.
func NewMemoryStorage(capacityMB int64) *MemoryStorage {
	return &MemoryStorage{
		data:     make(map[Handle][]byte),
		capacity: capacityMB * 1024 * 1024,
	}
}

func (s *MemoryStorage) Store(_ context.Context, data []byte) (Handle, error) {
	if err := checkReport(data); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := ComputeHandle(data)

	if _, exists := s.data[handle]; exists {
		return handle, nil // Dedup by content hash.
	}

	if s.size+int64(len(data)) > s.capacity {
		return "", ErrStorageFull
	}

	s.data[handle] = append([]byte(nil), data...)
	s.size += int64(len(data))

	return handle, nil
}

func (s *MemoryStorage) Load(_ context.Context, handle Handle) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.data[handle]
	if !exists {
		return nil, ErrNotFound
	}

	return verify(handle, append([]byte(nil), data...))
}

func (s *MemoryStorage) Delete(_ context.Context, handle Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.data[handle]
	if !exists {
		return ErrNotFound
	}

	s.size -= int64(len(data))
	delete(s.data, handle)
	return nil
}

func (s *MemoryStorage) Exists(_ context.Context, handle Handle) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[handle]
	return exists, nil
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[Handle][]byte)
	s.size = 0
	return nil
}

// FileStorage implements file-based storage sharded by handle prefix.
type FileStorage struct {
	baseDir string
}

// NewFileStorage creates a new file-based storage.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &FileStorage{baseDir: baseDir}, nil
}

func (s *FileStorage) path(handle Handle) (string, error) {
	h, err := ParseHandle(string(handle))
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, string(h[:2]), string(h)+".json"), nil
}

func (s *FileStorage) Store(_ context.Context, data []byte) (Handle, error) {
	if err := checkReport(data); err != nil {
		return "", err
	}

	handle := ComputeHandle(data)
	path, err := s.path(handle)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return handle, nil // Already exists (dedup).
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("create shard dir: %w", err)
	}

	// Write atomically via temp file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	return handle, nil
}

func (s *FileStorage) Load(_ context.Context, handle Handle) ([]byte, error) {
	path, err := s.path(handle)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return verify(handle, data)
}

func (s *FileStorage) Delete(_ context.Context, handle Handle) error {
	path, err := s.path(handle)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *FileStorage) Exists(_ context.Context, handle Handle) (bool, error) {
	path, err := s.path(handle)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat file: %w", err)
}

func (s *FileStorage) Close() error {
	return nil
}

// Reports stores and loads typed fixture reports.
type Reports struct {
	Storage
}

// Put encodes r and stores it.
func (s Reports) Put(ctx context.Context, r fixture.Report) (Handle, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return s.Store(ctx, data)
}

// Get loads and decodes the report stored under handle.
func (s Reports) Get(ctx context.Context, handle Handle) (fixture.Report, error) {
	data, err := s.Load(ctx, handle)
	if err != nil {
		return fixture.Report{}, err
	}
	var r fixture.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return fixture.Report{}, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	return r, nil
}
