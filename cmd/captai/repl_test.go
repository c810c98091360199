package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/scenarios"
)

func TestExecLineRecovers(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	session := scenarios.NewSession(ctx, "test", capture.NewEngine(logger, capture.DanglingAllow), logger)

	if err := execLine(ctx, session, nil, "def f [] -> int: return 'x'"); err != nil {
		t.Fatal(err)
	}
	err := execLine(ctx, session, nil, "call f()")
	if err == nil || !strings.Contains(err.Error(), "panic") {
		t.Fatalf("got %v", err)
	}

	// the session is still usable
	if err := execLine(ctx, session, nil, "let a = 1"); err != nil {
		t.Fatal(err)
	}
}
