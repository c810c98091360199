package captconfigs

import (
	"github.com/reusee/captai/cmds"
	"github.com/reusee/captai/configs"
	"github.com/reusee/captai/vars"
)

// DanglingAlias names the policy for by-reference fields that outlive their binding.
type DanglingAlias string

var _ configs.Configurable = DanglingAlias("")

func (d DanglingAlias) ConfigExpr() string {
	return "dangling_alias"
}

var danglingAliasFlag = cmds.Var[string]("-dangling")

func (Module) DanglingAlias(
	loader configs.Loader,
) DanglingAlias {
	return vars.FirstNonZero(
		// flag
		DanglingAlias(*danglingAliasFlag),
		// config
		configs.Get[DanglingAlias](loader),
		"allow",
	)
}
