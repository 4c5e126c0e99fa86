package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configEnv overrides the config file location.
const configEnv = "VR_CONFIG"

// CLIConfig is the state the CLI keeps between runs.
type CLIConfig struct {
	CurrentUser string `yaml:"current_user,omitempty"`
	GeminiModel string `yaml:"gemini_model,omitempty"`
}

// configPath returns $VR_CONFIG, or config.yaml beside the default database.
func configPath() (string, error) {
	if p := os.Getenv(configEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vr", "config.yaml"), nil
}

// loadConfig reads the config file. A missing file is an empty config.
func loadConfig() (CLIConfig, error) {
	var cfg CLIConfig

	path, err := configPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// saveConfig replaces the config file through a temporary file and a rename.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// setting returns the first non-empty of flag, the environment variable and
// the config field. An unreadable config counts as empty.
func setting(flag, env string, field func(CLIConfig) string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	return field(cfg)
}

// currentUser resolves the acting user: --user, then VR_USER, then the config.
func currentUser() string {
	return setting(flagUser, "VR_USER", func(c CLIConfig) string { return c.CurrentUser })
}

// getGeminiModel resolves the model: VR_GEMINI_MODEL, then the config.
// Empty means prospect.DefaultModel.
func getGeminiModel() string {
	return setting("", "VR_GEMINI_MODEL", func(c CLIConfig) string { return c.GeminiModel })
}
