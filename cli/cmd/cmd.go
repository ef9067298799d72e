package cmd

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/criterion/log"
	"github.com/ardnew/criterion/table"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}

	// source is one opened sample table input.
	source struct {
		name string
		r    io.Reader
	}

	sourceFiles struct {
		read     []source
		hasStdin bool
	}

	// SourceFiles is the set of sample table inputs named on the command
	// line, deduplicated, with stdin last.
	SourceFiles interface {
		IsZero() bool
		All() iter.Seq2[string, io.Reader]
		io.Closer
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// All returns an iterator over each source's name and reader, in order.
// Stdin, if present, is yielded last with the name "-".
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, src := range s.read {
			if !yield(src.name, src.r) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

// Close closes every opened source file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, src := range s.read {
		if c, ok := src.r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the sample table
// inputs opened from the given paths.
//
// The function deduplicates files by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader
// placed last, so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]source, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, source{name: src, r: reader})
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if len(srcs.read) == 0 && !srcs.hasStdin {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}

// sourceFilesFrom retrieves the SourceFiles stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// loadTable reads every source in ctx into one table. An explicit format
// applies to all sources; otherwise each file's format follows its extension
// and stdin is read as YAML. A nil table is returned when there are no
// sources.
func loadTable(ctx context.Context, format string) (*table.Table, error) {
	srcs := sourceFilesFrom(ctx)
	if srcs == nil || srcs.IsZero() {
		return nil, nil
	}

	defer srcs.Close()

	var forced table.Format

	if format != "" {
		f, err := table.ParseFormat(format)
		if err != nil {
			return nil, ErrLoadTable.Wrap(err)
		}

		forced = f
	}

	merged := new(table.Table)

	for name, r := range srcs.All() {
		f := forced
		if f == "" {
			f = table.FormatOf(name)
		}

		tbl, err := table.Read(ctx, r, f)
		if err != nil {
			return nil, ErrLoadTable.Wrap(err).With(slog.String("source", name))
		}

		log.DebugContext(ctx, "table loaded",
			slog.String("source", name),
			slog.String("format", string(f)),
			slog.Int("rows", tbl.Len()),
			slog.Int("columns", len(tbl.Columns)))

		merged.Append(tbl)
	}

	return merged, nil
}

// knownNames returns the union of the table's columns and extra names, in
// order of first appearance.
func knownNames(tbl *table.Table, extra []string) []string {
	var names []string
	if tbl != nil {
		names = slices.Clone(tbl.Columns)
	}

	for _, name := range extra {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// output returns the writer commands print results to.
func output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write results to w
// instead of stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}
