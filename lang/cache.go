package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores compiled programs keyed by (source_hash ^ opts_hash).
var globalCache sync.Map

// state tracks compilation of one cache key.
type state struct {
	once sync.Once
	prog *program
	err  error
}

// hashOptions encodes the declared names and the options that affect
// compilation using gob and hashes them with xxh3.
func hashOptions(names []string, key optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(names)
	_ = enc.Encode(key.strict)
	_ = enc.Encode(key.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// Compile returns a Criterion holding the parsed form of text. Each distinct
// combination of source text, declared names (in any order) and compile
// options is parsed at most once per process; later calls share the same
// immutable tree.
func Compile(
	ctx context.Context,
	text string,
	known []string,
	opts ...Option,
) (*Criterion, error) {
	o := makeOptions(opts...)

	names := slices.Compact(slices.Sorted(slices.Values(known)))

	sourceHash := xxh3.HashString(text)
	optsHash := hashOptions(names, o.key)
	cacheKey := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(cacheKey, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrInvalidFormat.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		expr, err := parse(ctx, text, names, o)
		if err != nil {
			entry.err = err

			return
		}

		entry.prog = &program{source: text, names: names, expr: expr}
	})

	if entry.err != nil {
		return nil, entry.err
	}

	c := &Criterion{opts: o}
	c.prog.Store(entry.prog)

	return c, nil
}

// CompileReader reads formula text from r and compiles it with [Compile].
// Surrounding white space is removed.
func CompileReader(
	ctx context.Context,
	r io.Reader,
	known []string,
	opts ...Option,
) (*Criterion, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Compile(ctx, strings.TrimSpace(string(data)), known, opts...)
}

// ClearCache removes all compiled programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
