package captconfigs

import (
	"runtime"

	"github.com/reusee/captai/cmds"
	"github.com/reusee/captai/configs"
	"github.com/reusee/captai/vars"
)

// Parallel is the number of scenario files run at once.
type Parallel int

var _ configs.Configurable = Parallel(0)

func (p Parallel) ConfigExpr() string {
	return "parallel"
}

var parallelFlag = cmds.Var[int]("-j")

func (Module) Parallel(
	loader configs.Loader,
) Parallel {
	n := vars.FirstNonZero(
		*parallelFlag,
		int(configs.Get[Parallel](loader)),
		runtime.NumCPU(),
	)
	return Parallel(max(n, 1))
}
