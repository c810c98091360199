package logs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/captai/cmds"
	"github.com/reusee/captai/modes"
	"github.com/reusee/dscope"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module), modes.ForTest(t)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		logger.Info("resolved", "entries", 2)
	})
	if !strings.Contains(buf.String(), "entries=2") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("logs.span"); got != "LOGS_SPAN" {
		t.Fatalf("got %v", got)
	}
	if got := toJournalKey("closure-name"); got != "CLOSURE_NAME" {
		t.Fatalf("got %v", got)
	}
}

func TestLogLevelFlag(t *testing.T) {
	defer level.Set(slog.LevelInfo)
	if err := cmds.GlobalExecutor.Execute([]string{"-log", "warn"}); err != nil {
		t.Fatal(err)
	}
	if level.Level() != slog.LevelWarn {
		t.Fatalf("got %v", level.Level())
	}
	if err := cmds.GlobalExecutor.Execute([]string{"-log-debug"}); err != nil {
		t.Fatal(err)
	}
	if level.Level() != slog.LevelDebug {
		t.Fatalf("got %v", level.Level())
	}
	if err := cmds.GlobalExecutor.Execute([]string{"-log", "loud"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTestWriter(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		writer Writer,
	) {
		if _, ok := writer.(testWriter); !ok {
			t.Fatalf("got %T", writer)
		}
	})
}
