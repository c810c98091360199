package capture

import (
	"github.com/reusee/captai/captconfigs"
	"github.com/reusee/captai/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs captconfigs.Module
	Logs    logs.Module
}

func (Module) Engine(
	logger logs.Logger,
	dangling captconfigs.DanglingAlias,
) *Engine {
	policy, err := ParseDanglingPolicy(string(dangling))
	if err != nil {
		panic(err)
	}
	return NewEngine(logger, policy)
}
