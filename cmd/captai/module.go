package main

import (
	"github.com/reusee/captai/debugs"
	"github.com/reusee/captai/scenarios"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Scenarios scenarios.Module
	Debugs    debugs.Module
}
