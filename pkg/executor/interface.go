package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs name with args, feeding stdin when it is non-nil, and
	// returns what the command wrote to stdout.
	Execute(ctx context.Context, stdin io.Reader, name string, args ...string) (string, error)
	// LookPath reports whether name can be found on PATH.
	LookPath(name string) (string, error)
}
