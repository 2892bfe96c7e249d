package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the tuning file name looked up in the config directories.
const ConfigFile = "climb.yaml"

// Load loads the climb configuration.
// Search order: customPath -> ~/.climb/configs/climb.yaml -> ./configs/climb.yaml -> embedded default.
// Files are decoded on top of the defaults, so partial files only override
// the keys they set. Only an explicit customPath can produce an error.
func Load(customPath string) (ClimbConfig, error) {
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		if err != nil {
			return DefaultClimbConfig(), err
		}
		return cfg, nil
	}

	if userCfgPath := UserConfigPath(ConfigFile); userCfgPath != "" {
		if cfg, err := LoadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := LoadFile(filepath.Join("configs", ConfigFile)); err == nil {
		return cfg, nil
	}

	cfg, err := Parse(defaultClimbYAML)
	if err != nil {
		return DefaultClimbConfig(), nil
	}
	return cfg, nil
}

// ResolvePath returns the file Load would read for customPath, or empty
// when only the embedded default applies.
func ResolvePath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	candidates := []string{UserConfigPath(ConfigFile), filepath.Join("configs", ConfigFile)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile reads and parses a single config file.
func LoadFile(path string) (ClimbConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClimbConfig{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return ClimbConfig{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the built-in defaults and validates the result.
func Parse(data []byte) (ClimbConfig, error) {
	cfg := DefaultClimbConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// UserConfigPath returns the path of a file in ~/.climb/configs, or empty
// if the home directory is unavailable.
func UserConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".climb", "configs", filename)
}
