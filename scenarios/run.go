package scenarios

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/reusee/captai/captconfigs"
	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/logs"
	"github.com/reusee/captai/procs"
	"github.com/reusee/captai/syncs"
)

type Report struct {
	File        string
	Name        string
	Description string
	// Steps is the number of steps that completed.
	Steps      int
	Transcript []string
	Err        error
	// Session is the final state, for inspection after the run.
	Session *Session
}

func (r *Report) OK() bool {
	return r.Err == nil
}

type numberedStep struct {
	index int
	proc  procs.Proc[*Session]
}

func (n numberedStep) Run(s *Session) (procs.Proc[*Session], error) {
	next, err := n.proc.Run(s)
	if err != nil {
		return nil, fmt.Errorf("step %d: %w", n.index, err)
	}
	if next != nil {
		return numberedStep{index: n.index, proc: next}, nil
	}
	return nil, nil
}

// Run executes the steps of scenario in a new session. Failures are reported in the Report.
func Run(ctx context.Context, engine *capture.Engine, logger logs.Logger, name string, scenario Scenario) (report *Report) {
	session := NewSession(ctx, name, engine, logger)
	report = &Report{
		Name:        name,
		Description: scenario.Description,
		Session:     session,
	}
	defer func() {
		report.Transcript = session.Transcript()
		if p := recover(); p != nil {
			report.Err = fmt.Errorf("step %d: panic: %v", report.Steps, p)
		}
		report.Err = logs.WrapSpan(ctx, report.Err)
	}()

	var steps procs.Procs[*Session]
	for i, step := range scenario.Steps {
		proc, err := step.Proc()
		if err != nil {
			report.Err = fmt.Errorf("step %d: %w", i, err)
			return
		}
		steps = append(steps, numberedStep{index: i, proc: proc})
	}

	var proc procs.Proc[*Session] = steps
	for proc != nil {
		var err error
		proc, err = proc.Run(session)
		if err != nil {
			report.Err = err
			return
		}
		rest, _ := proc.(procs.Procs[*Session])
		report.Steps = len(scenario.Steps) - len(rest)
		if len(rest) == 0 {
			return
		}
	}
	return
}

// RunFile runs every scenario of a document file, in name order.
type RunFile func(ctx context.Context, path string) ([]*Report, error)

func (Module) RunFile(
	engine *capture.Engine,
	logger logs.Logger,
	newSpan logs.NewSpan,
) RunFile {
	return func(ctx context.Context, path string) ([]*Report, error) {
		doc, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		var reports []*Report
		for _, name := range slices.Sorted(maps.Keys(doc)) {
			ctx, _ := newSpan(ctx, "")
			logger.InfoContext(ctx, "run scenario",
				"file", path,
				"name", name,
			)
			report := Run(ctx, engine, logger, name, doc[name])
			report.File = path
			if report.Err != nil {
				logger.ErrorContext(ctx, "scenario failed",
					"name", name,
					"error", report.Err,
				)
			}
			reports = append(reports, report)
		}
		return reports, nil
	}
}

// RunFiles runs document files concurrently, at most Parallel at a time.
// Reports keep the order of paths.
type RunFiles func(ctx context.Context, paths []string) ([]*Report, error)

func (Module) RunFiles(
	runFile RunFile,
	parallel captconfigs.Parallel,
) RunFiles {
	return func(ctx context.Context, paths []string) ([]*Report, error) {
		sem := syncs.NewSemaphore(int(parallel))
		results := make([][]*Report, len(paths))
		errs := make([]error, len(paths))
		var wg sync.WaitGroup
		for i, path := range paths {
			if err := sem.AcquireContext(ctx); err != nil {
				errs[i] = fmt.Errorf("run %s: %w", path, err)
				break
			}
			wg.Go(func() {
				defer sem.Release()
				results[i], errs[i] = runFile(ctx, path)
			})
		}
		wg.Wait()
		return slices.Concat(results...), errors.Join(errs...)
	}
}
