package scenarios

import (
	"context"

	"github.com/reusee/captai/captconfigs"
	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Capture capture.Module
	Configs captconfigs.Module
	Logs    logs.Module
}

type NewSessionFunc func(ctx context.Context, name string) *Session

func (Module) NewSession(
	engine *capture.Engine,
	logger logs.Logger,
) NewSessionFunc {
	return func(ctx context.Context, name string) *Session {
		return NewSession(ctx, name, engine, logger)
	}
}
