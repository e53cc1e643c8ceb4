package executor

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}
