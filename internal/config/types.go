package config

import (
	"time"

	"github.com/rileyhilliard/ansetup/internal/catalog"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Menu modes.
const (
	MenuAuto      = "auto"
	MenuChecklist = "checklist"
	MenuNumbered  = "numbered"
)

// Config represents the complete .ansetup.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// PlaybookDir holds the playbooks, inventory and requirements file.
	// Relative paths resolve against the directory of the config file.
	PlaybookDir string `yaml:"playbook_dir" mapstructure:"playbook_dir"`

	// InventoryDir is relative to PlaybookDir.
	InventoryDir string `yaml:"inventory_dir" mapstructure:"inventory_dir"`

	Playbooks PlaybookConfig `yaml:"playbooks" mapstructure:"playbooks"`

	// Requirements is the ansible-galaxy requirements file, relative to PlaybookDir.
	Requirements string `yaml:"requirements" mapstructure:"requirements"`

	// Roles overrides the built-in role list. Order is menu order.
	Roles []string `yaml:"roles,omitempty" mapstructure:"roles"`

	// Meta overrides the built-in meta-selections.
	Meta []MetaConfig `yaml:"meta,omitempty" mapstructure:"meta"`

	// Menu is "auto", "checklist" or "numbered".
	Menu string `yaml:"menu" mapstructure:"menu"`

	// ProbeTimeout bounds the SSH reachability check before a remote run.
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`

	CloudInit CloudInitConfig `yaml:"cloud_init" mapstructure:"cloud_init"`

	// path is where the config was loaded from; empty for defaults.
	path string
}

// PlaybookConfig names the playbooks for each deploy mode.
type PlaybookConfig struct {
	Local  string `yaml:"local" mapstructure:"local"`
	Remote string `yaml:"remote" mapstructure:"remote"`
	Site   string `yaml:"site" mapstructure:"site"`
}

// MetaConfig is a meta-selection as written in the config file. With
// neither Roles nor Except it covers every role.
type MetaConfig struct {
	Name        string   `yaml:"name" mapstructure:"name"`
	Description string   `yaml:"description,omitempty" mapstructure:"description"`
	Roles       []string `yaml:"roles,omitempty" mapstructure:"roles"`
	Except      []string `yaml:"except,omitempty" mapstructure:"except"`
}

// CloudInitConfig controls cloud-config generation.
type CloudInitConfig struct {
	// OutputDir is relative to PlaybookDir and also holds the vars files.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// Variants overrides the built-in minimal/dev/full list.
	Variants []VariantConfig `yaml:"variants,omitempty" mapstructure:"variants"`
}

// VariantConfig is a predefined cloud-init variant.
type VariantConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Description string `yaml:"description,omitempty" mapstructure:"description"`
	// VarsFile defaults to <name>.yml inside OutputDir.
	VarsFile string `yaml:"vars_file,omitempty" mapstructure:"vars_file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		InventoryDir: "inventory",
		Playbooks: PlaybookConfig{
			Local:  "local_setup.yml",
			Remote: "remote_setup.yml",
			Site:   "site.yml",
		},
		Requirements: "requirements.yml",
		Menu:         MenuAuto,
		ProbeTimeout: 5 * time.Second,
		CloudInit: CloudInitConfig{
			OutputDir: "files/cloud-init",
		},
	}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// MetaSpecs converts the configured meta-selections for catalog.New.
func (c *Config) MetaSpecs() []catalog.MetaSpec {
	specs := make([]catalog.MetaSpec, len(c.Meta))
	for i, m := range c.Meta {
		specs[i] = catalog.MetaSpec{
			Name:        m.Name,
			Description: m.Description,
			Roles:       m.Roles,
			Except:      m.Except,
		}
	}
	return specs
}

// Catalog builds the role catalog. The built-in roles and meta-selections
// apply unless the config overrides them; custom roles without custom
// meta entries get the built-in "all" (minus cloud-init when present) and
// "full" pair.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if len(c.Roles) == 0 && len(c.Meta) == 0 {
		return catalog.Default(), nil
	}

	roles := c.Roles
	if len(roles) == 0 {
		roles = append([]string(nil), catalog.DefaultRoles...)
	}

	metas := c.MetaSpecs()
	if len(c.Meta) == 0 {
		metas = defaultMetasFor(roles)
	}
	return catalog.New(roles, metas)
}

func defaultMetasFor(roles []string) []catalog.MetaSpec {
	var except []string
	for _, r := range roles {
		if r == "cloud-init" {
			except = []string{r}
		}
	}
	metas := make([]catalog.MetaSpec, len(catalog.DefaultMetas))
	copy(metas, catalog.DefaultMetas)
	for i := range metas {
		if metas[i].Except != nil {
			metas[i].Except = except
			if except == nil {
				metas[i].Description = "all roles"
			}
		}
	}
	return metas
}
