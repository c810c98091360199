package procs

// Proc is a resumable unit of work over C. Run returns the proc to continue with, or nil when done.
type Proc[C any] interface {
	Run(ctx C) (Proc[C], error)
}

// Func adapts a function that finishes in one run.
type Func[C any] func(ctx C) error

var _ Proc[any] = Func[any](nil)

func (f Func[C]) Run(ctx C) (Proc[C], error) {
	return nil, f(ctx)
}
