package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfiler(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPUProfile:   filepath.Join(dir, "cpu.prof"),
		MemProfile:   filepath.Join(dir, "mem.prof"),
		BlockProfile: filepath.Join(dir, "block.prof"),
		MutexProfile: filepath.Join(dir, "mutex.prof"),
	}

	var out bytes.Buffer
	p := New(cfg, &out)
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())

	for _, path := range []string{cfg.CPUProfile, cfg.MemProfile, cfg.BlockProfile, cfg.MutexProfile} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Positive(t, info.Size(), path)
	}
	require.Contains(t, out.String(), "CPU profile written to")

	out.Reset()
	PrintMemStats(&out)
	require.Contains(t, out.String(), "HeapObjects")
}

func TestProfilerBadPath(t *testing.T) {
	p := New(Config{CPUProfile: filepath.Join(t.TempDir(), "missing", "cpu.prof")}, &bytes.Buffer{})
	require.Error(t, p.Start())
	require.NoError(t, p.Stop())
}
