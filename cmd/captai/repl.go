package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/reusee/captai/debugs"
	"github.com/reusee/captai/scenarios"
	"golang.org/x/term"
)

func runREPL(ctx context.Context, session *scenarios.Session, tap debugs.Tap) {
	// piped input runs as a script, stopping at the first error
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := execLine(ctx, session, tap, scanner.Text()); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".captai_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			break
		}
		if err := execLine(ctx, session, tap, line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func execLine(ctx context.Context, session *scenarios.Session, tap debugs.Tap, line string) (err error) {
	// a body returning a value of the wrong type panics in the engine
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if name, ok := strings.CutPrefix(strings.TrimSpace(line), "tap "); ok {
		closure, err := session.Closure(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		tap(ctx, closure.Name, debugs.ClosureGlobals(closure, session.Env()))
		return nil
	}
	out, err := session.Exec(line)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Println(out)
	}
	return nil
}
