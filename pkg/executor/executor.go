package executor

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, stdin io.Reader, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Include stderr in error message for debugging
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", eris.Wrapf(err, "command '%s' failed\nstderr: %s", name, stderrStr)
		}
		return "", eris.Wrapf(err, "command '%s' failed", name)
	}

	return stdout.String(), nil
}

func (e *implExecutor) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", eris.Wrapf(err, "%s not found on PATH", name)
	}
	return p, nil
}
