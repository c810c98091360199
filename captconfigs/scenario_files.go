package captconfigs

import (
	"slices"

	"github.com/reusee/captai/configs"
)

// ScenarioFiles lists the scenario documents of every config file, nearest config first.
type ScenarioFiles []string

func (ScenarioFiles) ConfigExpr() string {
	return "scenario_files"
}

func (Module) ScenarioFiles(
	loader configs.Loader,
) (ret ScenarioFiles) {
	var zero ScenarioFiles
	for files := range configs.All[[]string](loader, zero.ConfigExpr()) {
		for _, file := range files {
			if !slices.Contains(ret, file) {
				ret = append(ret, file)
			}
		}
	}
	return
}
