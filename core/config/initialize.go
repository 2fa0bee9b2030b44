package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir and loads it back.
// An existing configuration is left untouched.
func Initialize(fsys afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, configPath)
	switch {
	case err != nil:
		return nil, err
	case exists:
		logger.Printf("- %s already exists, skipping", configPath)
	default:
		logger.Printf("- Writing %s", configPath)
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0644); err != nil {
			return nil, err
		}
	}

	cfg, err := Load(fsys, dir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Println("Done! Edit the steps in the config to change what gets checked.")
	return cfg, nil
}
