package argyll

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Result captures a finished tool invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr concatenated, for callers that scan the
// whole session transcript.
func (r Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Runner executes an external tool. stdin is written to the process before
// waiting; an empty string means no input. A non-zero exit status is not an
// error at this level: it is reported through Result.ExitCode so callers can
// map it to their own failure kinds. The returned error is reserved for
// spawn/ctx failures (binary missing, context deadline, ...).
type Runner func(ctx context.Context, stdin string, bin string, args ...string) (Result, error)

// Exec is the default Runner backed by os/exec.
func Exec(ctx context.Context, stdin string, bin string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		err = nil
	case ctx.Err() != nil:
		// Prefer the context error so callers can detect timeouts.
		err = ctx.Err()
	}

	return res, err
}
