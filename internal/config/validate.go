package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/errors"
)

// ReservedVariantNames cannot be used for predefined cloud-init variants.
var ReservedVariantNames = map[string]bool{
	"custom": true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but ansetup only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade ansetup or lower the version field.")
	}

	if _, err := cfg.Catalog(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid roles or meta-selections: "+err.Error(),
			"Check the 'roles' and 'meta' sections in "+cfg.displayPath()+".")
	}

	if err := validateMenu(cfg.Menu); err != nil {
		return err
	}

	if err := validatePlaybooks(cfg.Playbooks); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'playbooks' section in "+cfg.displayPath()+".")
	}

	if cfg.ProbeTimeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("probe_timeout can't be negative (got %s)", cfg.ProbeTimeout),
			"Use a duration like '5s', or 0 to skip the timeout.")
	}

	if err := validateVariants(cfg.CloudInit.Variants); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'cloud_init.variants' section in "+cfg.displayPath()+".")
	}

	return nil
}

func (c *Config) displayPath() string {
	if c.path == "" {
		return ConfigFileName
	}
	return c.path
}

func validateMenu(menu string) error {
	switch menu {
	case MenuAuto, MenuChecklist, MenuNumbered:
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown menu mode '%s'", menu),
		fmt.Sprintf("Use one of: %s, %s, %s.", MenuAuto, MenuChecklist, MenuNumbered))
}

func validatePlaybooks(p PlaybookConfig) error {
	for key, file := range map[string]string{"local": p.Local, "remote": p.Remote, "site": p.Site} {
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("playbooks.%s is empty", key)
		}
		if filepath.IsAbs(file) {
			return fmt.Errorf("playbooks.%s must be relative to playbook_dir, got %s", key, file)
		}
	}
	return nil
}

func validateVariants(variants []VariantConfig) error {
	seen := make(map[string]bool, len(variants))
	for i, v := range variants {
		name := strings.TrimSpace(v.Name)
		switch {
		case name == "":
			return fmt.Errorf("variant #%d has no name", i+1)
		case ReservedVariantNames[name]:
			return fmt.Errorf("'%s' is built in and can't be redefined as a variant", name)
		case seen[name]:
			return fmt.Errorf("variant '%s' is defined twice", name)
		}
		seen[name] = true
	}
	return nil
}
