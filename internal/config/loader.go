package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".ansetup.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/ansetup"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. ANSETUP_PLAYBOOK_DIR.
	EnvPrefix = "ANSETUP"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'ansetup init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .ansetup.yaml in current directory
// 3. .ansetup.yaml in parent directories (stops at git root or home)
// 4. ~/.config/ansetup/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	if path := findUpwards(cwd, home); path != "" {
		return path, nil
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// findUpwards checks dir and its parents for ConfigFileName, stopping
// after a git root and never climbing above home.
func findUpwards(dir, home string) string {
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if isGitRoot(dir) {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault loads the config found by Find(explicit), or returns
// defaults rooted at the current directory when there is none.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		v := newViper()
		cfg := DefaultConfig()
		if err := v.Unmarshal(cfg); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid environment override",
				"Check the "+EnvPrefix+"_* variables")
		}
		resolvePaths(cfg, "")
		return cfg, nil
	}

	return Load(path)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every scalar key so AutomaticEnv can override
// keys absent from the file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("playbook_dir", d.PlaybookDir)
	v.SetDefault("inventory_dir", d.InventoryDir)
	v.SetDefault("playbooks.local", d.Playbooks.Local)
	v.SetDefault("playbooks.remote", d.Playbooks.Remote)
	v.SetDefault("playbooks.site", d.Playbooks.Site)
	v.SetDefault("requirements", d.Requirements)
	v.SetDefault("menu", d.Menu)
	v.SetDefault("probe_timeout", d.ProbeTimeout)
	v.SetDefault("cloud_init.output_dir", d.CloudInit.OutputDir)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	resolvePaths(cfg, path)
	return cfg, nil
}

// resolvePaths makes PlaybookDir absolute: relative to the config file's
// directory, or to the working directory without one.
func resolvePaths(cfg *Config, path string) {
	cfg.path = path
	dir := ExpandTilde(Expand(cfg.PlaybookDir))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(configDir(path), dir)
	}
	cfg.PlaybookDir = filepath.Clean(dir)
}

// configDir returns the directory containing the config file.
func configDir(configPath string) string {
	if configPath == "" {
		cwd, _ := os.Getwd()
		return cwd
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return filepath.Dir(configPath)
	}
	return filepath.Dir(abs)
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
