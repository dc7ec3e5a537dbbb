package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"gopkg.in/yaml.v3"
)

const starterHeader = `# ansetup configuration
#
# playbook_dir is resolved relative to this file. Override any scalar key
# with an ANSETUP_ environment variable, e.g. ANSETUP_MENU=numbered.
`

// Starter returns the config written by 'ansetup init': the defaults with
// the built-in roles and meta-selections spelled out so they can be edited.
func Starter(playbookDir string) *Config {
	cfg := DefaultConfig()
	cfg.PlaybookDir = playbookDir
	cfg.Roles = append([]string(nil), catalog.DefaultRoles...)
	for _, m := range catalog.DefaultMetas {
		cfg.Meta = append(cfg.Meta, MetaConfig{
			Name:        m.Name,
			Description: m.Description,
			Roles:       m.Roles,
			Except:      m.Except,
		})
	}
	return cfg
}

// Marshal renders cfg as YAML with the starter header.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteStarter writes a starter config into dir. It refuses to replace an
// existing file unless overwrite is set.
func WriteStarter(dir string, cfg *Config, overwrite bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName)

	if _, err := os.Stat(path); err == nil && !overwrite {
		return "", errors.New(errors.ErrConfig,
			"Config file already exists: "+path,
			"Use --force to overwrite it.")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render config",
			"This is unexpected - please report it.")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check directory permissions.")
	}
	return path, nil
}
