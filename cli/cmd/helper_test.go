package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeSample writes content to a file named name in a fresh temp directory
// and returns its path.
func writeSample(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// testContext returns a context reading the given sample files and writing
// command output to the returned buffer.
func testContext(t testing.TB, sources ...string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	ctx := WithSourceFiles(t.Context(), sources)
	ctx = WithOutput(ctx, &buf)

	return ctx, &buf
}
