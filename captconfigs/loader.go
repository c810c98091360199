package captconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/captai/configs"
	"github.com/reusee/captai/logs"
	"github.com/reusee/captai/modes"
)

//go:embed schema.cue
var Schema string

var configFilenames = []string{
	"captai.cue",
	".captai.cue",
}

func (Module) ConfigsLoader(
	logger logs.Logger,
	mode modes.Mode,
) configs.Loader {

	var paths []string
	defer func() {
		if len(paths) > 0 {
			logger.Info("config file",
				"paths", paths,
			)
		}
	}()

	if mode == modes.ModeDevelopment {
		return configs.NewLoader(nil, Schema)
	}

	// working directory
	workingDir, err := os.Getwd()
	if err == nil {
		paths = append(paths, existing(workingDir)...)
	}

	// user config dir
	configDir, err := os.UserConfigDir()
	if err == nil {
		paths = append(paths, existing(configDir)...)
	}

	// system wide dir
	paths = append(paths, existing("/etc")...)

	return configs.NewLoader(paths, Schema)
}

func existing(dir string) (paths []string) {
	for _, filename := range configFilenames {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	return
}
