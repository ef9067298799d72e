// Package profile provides optional runtime profiling for the criterion
// command.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag. Without the tag, [Config.Start] returns a
// no-op and [Modes] is empty, so callers never need to guard their use.
//
// # Modes
//
// With the pprof tag, the supported modes are allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, and trace.
//
// # Usage
//
//	var cfg profile.Config = profile.Defaults
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//
//	defer cfg.Start().Stop()
//
// Profile files are written to the configured directory with names matching
// the mode (cpu.pprof, mem.pprof, and so on). Profiling batch evaluation of a
// large sample table is the usual way to find hot spots in the evaluator:
//
//	criterion --pprof-mode cpu eval -t samples.csv '[x] > 1 AND [y] < 2'
//	go tool pprof -http=: ~/.cache/criterion/pprof/cpu.pprof
//
// Importing this package with the pprof tag also registers the
// [net/http/pprof] handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
