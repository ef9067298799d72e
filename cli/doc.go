// Package cli contains the command line interface for criterion.
//
// # Usage
//
// Sample tables are named with the global --source flag and shared by every
// subcommand. The default subcommand evaluates a formula against each row:
//
//	criterion -s samples.csv '[height] > 1.8 AND [group] = "A"'
//	criterion -s samples.csv eval --bool --output=json '[x] / [y] > 2'
//	criterion -s samples.csv check 'LOG([x], 10) >= 1'
//	criterion fmt json --name x '[x]+1*2'
//	criterion funcs log
//	criterion -s samples.csv repl
//
// # Configuration
//
// Flag defaults are read from a YAML file in the user configuration
// directory (see [resolve]). Nested mappings join their keys with '-', so
// "log: {level: debug}" sets --log-level. The init subcommand writes the
// current flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o criterion .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/criterion/pprof)
package cli
