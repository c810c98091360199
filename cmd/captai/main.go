package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/captai/captconfigs"
	"github.com/reusee/captai/cmds"
	"github.com/reusee/captai/debugs"
	"github.com/reusee/captai/logs"
	"github.com/reusee/captai/modes"
	"github.com/reusee/captai/scenarios"
	"github.com/reusee/dscope"
)

var (
	scenarioFiles []string
	replMode      bool
	tapAfter      = cmds.Switch("-tap")
	verbose       = cmds.Switch("-v")
)

func init() {
	cmds.Define("run", cmds.Func(func(path string) {
		scenarioFiles = append(scenarioFiles, path)
	}).Desc("run the scenarios of a CUE document, may be repeated"))
	cmds.Define("repl", cmds.Func(func() {
		replMode = true
	}).Desc("define and invoke lambdas interactively, tap NAME inspects a closure"))
}

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	if len(scenarioFiles) == 0 && !replMode {
		scope.Call(func(
			files captconfigs.ScenarioFiles,
		) {
			scenarioFiles = files
		})
	}

	switch {

	case replMode:
		scope.Call(func(
			newSession scenarios.NewSessionFunc,
			tap debugs.Tap,
		) {
			runREPL(ctx, newSession(ctx, "repl"), tap)
		})

	case len(scenarioFiles) > 0:
		var failed bool
		scope.Call(func(
			runFiles scenarios.RunFiles,
			tap debugs.Tap,
			logger logs.Logger,
		) {
			reports, err := runFiles(ctx, scenarioFiles)
			if err != nil {
				logger.Error("load scenarios", "error", err)
				failed = true
			}
			for _, report := range reports {
				if report.OK() {
					fmt.Printf("ok   %s: %s (%d steps)\n", report.File, report.Name, report.Steps)
				} else {
					failed = true
					fmt.Printf("FAIL %s: %s: %v\n", report.File, report.Name, report.Err)
				}
				if *verbose || !report.OK() {
					for _, line := range report.Transcript {
						fmt.Printf("    %s\n", line)
					}
				}
				if *tapAfter {
					tap(ctx, report.Name, debugs.ClosureGlobals(nil, report.Session.Env()))
				}
			}
		})
		if failed {
			os.Exit(1)
		}

	default:
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)

	}
}
