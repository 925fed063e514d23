package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/pkg/router"
)

// sampleEvery keeps one latency sample per this many matches per worker.
const sampleEvery = 64

type benchConfig struct {
	Workers     int
	Duration    time.Duration
	ReloadEvery time.Duration
	Paths       []string
}

func benchCmd(g *globalFlags) *cobra.Command {
	var (
		cfg    benchConfig
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "bench [path...]",
		Short: "Measure match throughput under concurrent reloads",
		Long: `Match paths against the compiled manifest from several goroutines while
the table is reloaded in the background, then report throughput and
latency percentiles.

Without paths, one sample path is built per route by interpolating it.

Examples:
  routetable bench
  routetable bench --workers=8 --duration=5s /posts/1 /files/a/b`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			table, m, err := compileManifest(cmd.Context(), c)
			if err != nil {
				return reportBuildErrors(cmd.ErrOrStderr(), m, err)
			}

			cfg.Paths = args
			if len(cfg.Paths) == 0 {
				cfg.Paths = samplePaths(table)
			}
			if len(cfg.Paths) == 0 {
				return fmt.Errorf("no paths to match")
			}

			registry := router.NewRegistry(router.WithCompileOptions(c.CompileOptions()...))
			if _, err := registry.Load(cmd.Context(), m.Patterns); err != nil {
				return err
			}

			report := runBench(cmd.Context(), registry, m.Patterns, cfg)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			writeBenchSummary(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.GOMAXPROCS(0), "Concurrent matching goroutines")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 2*time.Second, "How long to run")
	cmd.Flags().DurationVar(&cfg.ReloadEvery, "reload-every", 100*time.Millisecond, "Reload interval; 0 disables reloads")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

// samplePaths interpolates every route with placeholder values.
func samplePaths(table *router.Table) []string {
	var paths []string
	for _, p := range table.Patterns() {
		if p.IsLayout() {
			continue
		}
		params := router.Params{}
		for _, name := range p.ParamNames() {
			params[name] = router.Str("x")
		}
		if path, err := p.Interpolate(params); err == nil {
			paths = append(paths, path)
		}
	}
	return paths
}

type benchReport struct {
	Workers      int         `json:"workers"`
	DurationMS   int64       `json:"duration_ms"`
	Paths        int         `json:"paths"`
	Matches      uint64      `json:"matches"`
	Misses       uint64      `json:"misses"`
	MatchesPerS  float64     `json:"matches_per_sec"`
	Generations  uint64      `json:"generations"`
	ReloadErrors uint64      `json:"reload_errors"`
	LatencyNS    latencyInfo `json:"latency_ns"`
	AllocMB      float64     `json:"alloc_mb"`
	NumGC        uint32      `json:"num_gc"`
}

type latencyInfo struct {
	Samples int   `json:"samples"`
	Min     int64 `json:"min"`
	P50     int64 `json:"p50"`
	P95     int64 `json:"p95"`
	P99     int64 `json:"p99"`
	Max     int64 `json:"max"`
}

func runBench(ctx context.Context, registry *router.Registry, patterns []string, cfg benchConfig) benchReport {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var (
		matches, misses, reloadErrs atomic.Uint64
		samplesMu                   sync.Mutex
		samples                     []time.Duration
	)

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	var wg sync.WaitGroup

	if cfg.ReloadEvery > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(cfg.ReloadEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := registry.Load(context.Background(), patterns); err != nil {
						reloadErrs.Add(1)
					}
				}
			}
		}()
	}

	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		offset := w
		go func() {
			defer wg.Done()
			var local []time.Duration
			for n := 0; ; n++ {
				if n%sampleEvery == 0 && ctx.Err() != nil {
					break
				}
				path := cfg.Paths[(n+offset)%len(cfg.Paths)]
				t0 := time.Now()
				_, ok := registry.Match(path)
				if n%sampleEvery == 0 {
					local = append(local, time.Since(t0))
				}
				if ok {
					matches.Add(1)
				} else {
					misses.Add(1)
				}
			}
			samplesMu.Lock()
			samples = append(samples, local...)
			samplesMu.Unlock()
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	total := matches.Load() + misses.Load()
	report := benchReport{
		Workers:      cfg.Workers,
		DurationMS:   elapsed.Milliseconds(),
		Paths:        len(cfg.Paths),
		Matches:      matches.Load(),
		Misses:       misses.Load(),
		Generations:  registry.Generation(),
		ReloadErrors: reloadErrs.Load(),
		AllocMB:      float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
		NumGC:        after.NumGC - before.NumGC,
	}
	if elapsed > 0 {
		report.MatchesPerS = float64(total) / elapsed.Seconds()
	}
	if len(samples) > 0 {
		report.LatencyNS = latencyInfo{
			Samples: len(samples),
			Min:     int64(samples[0]),
			P50:     int64(percentile(samples, 0.50)),
			P95:     int64(percentile(samples, 0.95)),
			P99:     int64(percentile(samples, 0.99)),
			Max:     int64(samples[len(samples)-1]),
		}
	}
	return report
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

func writeBenchSummary(w io.Writer, r benchReport) {
	fmt.Fprintln(w, "=== routetable match benchmark ===")
	fmt.Fprintf(w, "Workers:     %d\n", r.Workers)
	fmt.Fprintf(w, "Duration:    %s\n", time.Duration(r.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "Paths:       %d\n", r.Paths)
	fmt.Fprintf(w, "Generations: %d (%d reload errors)\n", r.Generations, r.ReloadErrors)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Matches:     %d (%d misses)\n", r.Matches, r.Misses)
	fmt.Fprintf(w, "Throughput:  %.0f matches/s\n", r.MatchesPerS)
	fmt.Fprintln(w)

	if r.LatencyNS.Samples == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintf(w, "Latency (%d samples):\n", r.LatencyNS.Samples)
		fmt.Fprintf(w, "  min: %s\n", time.Duration(r.LatencyNS.Min))
		fmt.Fprintf(w, "  p50: %s\n", time.Duration(r.LatencyNS.P50))
		fmt.Fprintf(w, "  p95: %s\n", time.Duration(r.LatencyNS.P95))
		fmt.Fprintf(w, "  p99: %s\n", time.Duration(r.LatencyNS.P99))
		fmt.Fprintf(w, "  max: %s\n", time.Duration(r.LatencyNS.Max))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Allocated:   %.2f MB over %d GCs\n", r.AllocMB, r.NumGC)
}
