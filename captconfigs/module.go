package captconfigs

import (
	"github.com/reusee/captai/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
