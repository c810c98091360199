package procs

// Procs runs its elements in order, one Run at a time.
type Procs[C any] []Proc[C]

var _ Proc[any] = Procs[any]{}

func (p Procs[C]) Run(ctx C) (Proc[C], error) {
	if len(p) == 0 {
		return nil, nil
	}
	proc, err := p[0].Run(ctx)
	if err != nil {
		return nil, err
	}
	if proc == nil {
		if len(p) == 1 {
			return nil, nil
		}
		return p[1:], nil
	}
	p[0] = proc
	return p, nil
}

// Drain runs proc until it finishes or fails. The returned count is the number of Run calls that completed.
func Drain[C any](ctx C, proc Proc[C]) (runs int, err error) {
	for proc != nil {
		proc, err = proc.Run(ctx)
		if err != nil {
			return
		}
		runs++
	}
	return
}
