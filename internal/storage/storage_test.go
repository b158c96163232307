package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/fixture"
)

func TestStorage(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for name, s := range map[string]Storage{
		"Memory": NewMemoryStorage(1),
		"File":   fs,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte(`{"fixture":"lwe-ciphertext-keyswitch"}`)

			h, err := s.Store(ctx, data)
			require.NoError(t, err)
			require.Equal(t, ComputeHandle(data), h)

			again, err := s.Store(ctx, data)
			require.NoError(t, err)
			require.Equal(t, h, again)

			ok, err := s.Exists(ctx, h)
			require.NoError(t, err)
			require.True(t, ok)

			loaded, err := s.Load(ctx, h)
			require.NoError(t, err)
			require.Equal(t, data, loaded)

			require.NoError(t, s.Delete(ctx, h))
			_, err = s.Load(ctx, h)
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, s.Delete(ctx, h), ErrNotFound)

			ok, err = s.Exists(ctx, h)
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, s.Close())
		})
	}
}

func TestMemoryStorageCapacity(t *testing.T) {
	s := NewMemoryStorage(1)
	big := `{"fixture":"` + strings.Repeat("x", 1024*1024) + `"}`
	_, err := s.Store(context.Background(), []byte(big))
	require.ErrorIs(t, err, ErrStorageFull)
}

func TestParseHandle(t *testing.T) {
	h := ComputeHandle([]byte("report"))
	parsed, err := ParseHandle(string(h))
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	for _, bad := range []string{"", "abc", "../" + string(h)[3:], strings.Repeat("zz", 32)} {
		_, err := ParseHandle(bad)
		require.ErrorIs(t, err, ErrInvalidHandle, bad)
	}

	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	_, err = fs.Load(context.Background(), "../../etc/passwd")
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestStoreRejectsNonReports(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for name, s := range map[string]Storage{
		"Memory": NewMemoryStorage(1),
		"File":   fs,
	} {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "report", "[]", "42", `{"fixture":""}`, `{"results":[]}`, `{"fixture":1}`} {
				_, err := s.Store(context.Background(), []byte(bad))
				require.ErrorIs(t, err, ErrInvalidReport, bad)
			}
		})
	}
}

func TestFileStorageDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	ctx := context.Background()
	h, err := s.Store(ctx, []byte(`{"fixture":"glwe-ciphertext-view-creation"}`))
	require.NoError(t, err)

	path := filepath.Join(dir, string(h)[:2], string(h)+".json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fixture":"lwe-ciphertext-keyswitch"}`), 0600))

	_, err = s.Load(ctx, h)
	require.ErrorIs(t, err, ErrCorrupt)
	_, err = Reports{Storage: s}.Get(ctx, h)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	reports := Reports{Storage: NewMemoryStorage(1)}

	want := fixture.Report{
		Fixture:   "lwe-ciphertext-keyswitch",
		Precision: lwe.Precision64,
		Mode:      fixture.Unchecked.String(),
		Results:   []fixture.Result{},
	}
	h, err := reports.Put(ctx, want)
	require.NoError(t, err)

	got, err := reports.Get(ctx, h)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = reports.Put(ctx, fixture.Report{})
	require.ErrorIs(t, err, ErrInvalidReport)

	_, err = reports.Get(ctx, ComputeHandle([]byte("missing")))
	require.ErrorIs(t, err, ErrNotFound)
}
