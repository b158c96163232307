// Command lwe-fixtures runs the statistical fixtures in process and prints
// their reports.
//
// Usage:
//
//	lwe-fixtures -fixture=lwe-ciphertext-keyswitch -precision=64 -mode=unchecked
//	lwe-fixtures -cpu=cpu.prof -mem=mem.prof
//
// Analyze profiles:
//
//	go tool pprof -http=:8080 cpu.prof
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/fixture"
	"github.com/luxfi/lwe/internal/profile"
	"github.com/luxfi/lwe/noise"
)

var errFailed = errors.New("fixtures failed")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("lwe-fixtures", flag.ContinueOnError)
	var (
		names       = fs.String("fixture", "all", "comma-separated fixture names, or all")
		precisions  = fs.String("precision", "32,64", "comma-separated precisions")
		mode        = fs.String("mode", "checked", "entry points to exercise: checked or unchecked")
		repetitions = fs.Int("repetitions", 10, "repetitions per parameter set")
		samples     = fs.Int("samples", 100, "samples per repetition")
		confidence  = fs.Float64("confidence", float64(noise.DefaultConfidence), "confidence of the noise checks")
		seed        = fs.String("seed", "", "seed for a reproducible run")
		asJSON      = fs.Bool("json", false, "print reports as JSON")
		list        = fs.Bool("list", false, "list fixtures and exit")
		cpuProfile  = fs.String("cpu", "", "write cpu profile to file")
		memProfile  = fs.String("mem", "", "write memory profile to file")
		verbose     = fs.Bool("v", false, "verbose output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		for _, name := range fixture.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	opts := fixture.Options{
		Repetitions: *repetitions,
		Samples:     *samples,
		Confidence:  noise.Confidence(*confidence),
	}
	var err error
	if opts.Mode, err = fixture.ParseMode(*mode); err != nil {
		return err
	}

	selected := fixture.Names()
	if *names != "all" {
		selected = strings.Split(*names, ",")
	}
	precs, err := parsePrecisions(*precisions)
	if err != nil {
		return err
	}

	var seedBytes []byte
	if *seed != "" {
		seedBytes = []byte(*seed)
	}

	profiler := profile.New(profile.Config{CPUProfile: *cpuProfile, MemProfile: *memProfile}, os.Stderr)
	if err := profiler.Start(); err != nil {
		return err
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	}

	var (
		reports []fixture.Report
		failed  bool
	)
	for _, name := range selected {
		r, err := fixture.Lookup(name)
		if err != nil {
			profiler.Stop()
			return err
		}
		for _, p := range precs {
			report, err := r(seedBytes, p, opts)
			if errors.Is(err, fixture.ErrUnsupportedPrecision) {
				if *verbose {
					fmt.Fprintf(os.Stderr, "skipping %s at %s\n", name, p)
				}
				continue
			}
			if err != nil {
				profiler.Stop()
				return fmt.Errorf("%s/%s: %w", name, p, err)
			}
			failed = failed || !report.Passed()
			reports = append(reports, report)
			if !*asJSON {
				printReport(stdout, report, *verbose)
			}
		}
	}

	if err := profiler.Stop(); err != nil {
		return err
	}
	if *verbose {
		profile.PrintMemStats(os.Stderr)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func parsePrecisions(s string) ([]lwe.Precision, error) {
	var out []lwe.Precision
	for _, f := range strings.Split(s, ",") {
		switch strings.TrimSpace(f) {
		case "32":
			out = append(out, lwe.Precision32)
		case "64":
			out = append(out, lwe.Precision64)
		default:
			return nil, fmt.Errorf("unknown precision %q", f)
		}
	}
	return out, nil
}

func printReport(w io.Writer, r fixture.Report, verbose bool) {
	verdict := "ok"
	if !r.Passed() {
		verdict = "FAIL"
	}
	fmt.Fprintf(w, "%-4s %s/%s/%s\n", verdict, r.Fixture, r.Precision, r.Mode)
	for _, res := range r.Results {
		if res.Error == "" && !verbose {
			continue
		}
		fmt.Fprintf(w, "     %s criteria=%s values=%d", res.Parameters, res.Criteria, res.Values)
		if res.Error != "" {
			fmt.Fprintf(w, " error=%s", res.Error)
		}
		fmt.Fprintln(w)
	}
	if r.Leaks != "" {
		fmt.Fprintf(w, "     %s\n", r.Leaks)
	}
}
