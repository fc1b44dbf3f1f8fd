package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/anchorui"
)

// ConfigFile is the configuration read when -config is not given.
const ConfigFile = "anchorui.toml"

// loadConfig reads path, or ConfigFile when path is empty. A missing
// ConfigFile selects the defaults.
func loadConfig(path string) (anchorui.Config, error) {
	if path == "" {
		if _, err := os.Stat(ConfigFile); errors.Is(err, fs.ErrNotExist) {
			return anchorui.DefaultConfig(), nil
		}
		path = ConfigFile
	}
	return anchorui.LoadConfig(path)
}

// SaveConfig writes config to path.
func SaveConfig(path string, config anchorui.Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// openEngine loads the configuration, installs its logger, and builds the
// document at docPath.
func openEngine(configPath, docPath string) (*anchorui.Engine, *anchorui.Document, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	anchorui.SetLogger(config.Log.NewLogger(os.Stderr))

	doc, err := anchorui.LoadDocument(docPath)
	if err != nil {
		return nil, nil, err
	}

	engine, err := anchorui.NewEngine(config, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := engine.Build(doc); err != nil {
		return nil, nil, fmt.Errorf("failed to build %s: %w", docPath, err)
	}
	engine.Load()
	return engine, doc, nil
}

func defaultProjectConfig(width, height int) anchorui.Config {
	config := anchorui.DefaultConfig()
	config.Canvas.Width = width
	config.Canvas.Height = height
	return config
}
