package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/criterion/lang"
	"github.com/ardnew/criterion/log"
)

const defaultEditor = "vi"

// editFormulaCommand implements [tea.ExecCommand] for the edit-validate-retry
// loop. It writes the formula to a temp file, opens the user's editor and
// validates the result against the declared names. On a syntax error the
// user is prompted to re-edit; declining returns [ErrEditDeclined].
type editFormulaCommand struct {
	text    string
	names   []string
	result  string // validated formula; empty if the user cleared the file
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editFormulaCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editFormulaCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editFormulaCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop.
func (c *editFormulaCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "criterion-repl-*.txt")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.text

	for {
		if err := os.WriteFile(tmpPath, []byte(content+"\n"), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// Formulas are single-line; the editor may add line breaks.
		text := strings.Join(strings.Fields(string(data)), " ")
		if text == "" {
			return nil
		}

		_, parseErr := lang.Parse(text, c.names)

		c.logger.TraceContext(ctx, "editor validate attempt",
			slog.Int("content_length", len(text)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.result = text

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)

		if snippet := snippetOf(parseErr); snippet != "" {
			fmt.Fprint(c.stderr, snippet)
		}

		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = text
	}
}

// runEditor launches $EDITOR on path and returns the edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
