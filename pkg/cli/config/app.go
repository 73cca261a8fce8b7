package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	path string

	Categories CategoryConfig `toml:"categories"`
}

// CategoryConfig declares the category set used for classification
type CategoryConfig struct {
	Names    []string `toml:"names"`
	Default  string   `toml:"default"`
	Shopping string   `toml:"shopping"`
}

// Flags returns CLI flags for the configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("OLIVE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the configuration file when one is given and returns the
// category set. Without a file the built-in categories are used.
func (a *AppConfig) Configure() (*model.CategorySet, error) {
	if a.path == "" {
		return model.DefaultCategorySet(), nil
	}

	cfg, err := LoadAppConfiguration(a.path)
	if err != nil {
		return nil, err
	}
	return cfg.CategorySet()
}

// CategorySet converts the category section into a domain CategorySet. Empty
// fields fall back to the built-in values.
func (a *AppConfig) CategorySet() (*model.CategorySet, error) {
	defaults := model.DefaultCategorySet()

	names := a.Categories.Names
	if len(names) == 0 {
		names = defaults.Names()
	}
	defaultName := a.Categories.Default
	if defaultName == "" {
		defaultName = defaults.Default()
	}
	shopping := a.Categories.Shopping
	if shopping == "" {
		shopping = defaults.Shopping()
	}

	set, err := model.NewCategorySet(names, defaultName, shopping)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid categories", goerr.V("error", err.Error()), goerr.V(ConfigPathKey, a.path))
	}
	return set, nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}
	config.path = path

	return &config, nil
}
