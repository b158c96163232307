// Package profile writes pprof profiles around a fixture run.
package profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"
)

// Config names the profile files to write. Empty names are skipped.
type Config struct {
	CPUProfile   string
	MemProfile   string
	BlockProfile string
	MutexProfile string
}

// Profiler wraps profiling functionality.
type Profiler struct {
	config    Config
	out       io.Writer
	cpuFile   *os.File
	startTime time.Time
}

// New creates a profiler reporting progress to out.
func New(config Config, out io.Writer) *Profiler {
	return &Profiler{config: config, out: out}
}

// Start begins profiling.
func (p *Profiler) Start() error {
	p.startTime = time.Now()

	if p.config.BlockProfile != "" {
		runtime.SetBlockProfileRate(1)
	}
	if p.config.MutexProfile != "" {
		runtime.SetMutexProfileFraction(1)
	}

	if p.config.CPUProfile != "" {
		f, err := os.Create(p.config.CPUProfile)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		p.cpuFile = f
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			p.cpuFile = nil
			return fmt.Errorf("start CPU profile: %w", err)
		}
	}

	return nil
}

// Stop ends profiling and writes the remaining profile files.
func (p *Profiler) Stop() error {
	fmt.Fprintf(p.out, "Profiling duration: %v\n", time.Since(p.startTime))

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, p.cpuFile.Close())
		p.cpuFile = nil
		fmt.Fprintf(p.out, "CPU profile written to: %s\n", p.config.CPUProfile)
	}

	if p.config.MemProfile != "" {
		runtime.GC() // Get up-to-date statistics
		errs = append(errs, p.write("heap", p.config.MemProfile))
	}
	if p.config.BlockProfile != "" {
		errs = append(errs, p.write("block", p.config.BlockProfile))
		runtime.SetBlockProfileRate(0)
	}
	if p.config.MutexProfile != "" {
		errs = append(errs, p.write("mutex", p.config.MutexProfile))
		runtime.SetMutexProfileFraction(0)
	}

	return errors.Join(errs...)
}

func (p *Profiler) write(name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}
	defer f.Close()
	if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
		return fmt.Errorf("write %s profile: %w", name, err)
	}
	fmt.Fprintf(p.out, "%s profile written to: %s\n", name, path)
	return nil
}

// PrintMemStats prints memory statistics.
func PrintMemStats(w io.Writer) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Fprintf(w, "Memory Statistics:\n")
	fmt.Fprintf(w, "  Alloc:       %d MB\n", m.Alloc/1024/1024)
	fmt.Fprintf(w, "  TotalAlloc:  %d MB\n", m.TotalAlloc/1024/1024)
	fmt.Fprintf(w, "  Sys:         %d MB\n", m.Sys/1024/1024)
	fmt.Fprintf(w, "  NumGC:       %d\n", m.NumGC)
	fmt.Fprintf(w, "  HeapObjects: %d\n", m.HeapObjects)
}
