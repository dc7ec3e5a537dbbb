package cloudinit

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"gopkg.in/yaml.v3"
)

// CustomVariant is the variant built from prompts rather than a vars file.
const CustomVariant = "custom"

// FallbackVariant is used when the chosen variant doesn't exist.
const FallbackVariant = "minimal"

// Variant is a predefined cloud-config flavor.
type Variant struct {
	Name        string
	Description string
	// VarsFile is relative to the output directory unless absolute.
	VarsFile string
}

// DefaultVariants ship with the playbook repository.
var DefaultVariants = []Variant{
	{Name: "minimal", Description: "Basic setup (essentials only)", VarsFile: "minimal.yml"},
	{Name: "dev", Description: "Dev setup (+ dev-envs, fonts, terminals)", VarsFile: "dev.yml"},
	{Name: "full", Description: "Full setup (+ GUI, Nix GUI)", VarsFile: "full.yml"},
}

// VariantsFrom converts configured variants, falling back to the defaults
// when none are configured.
func VariantsFrom(cfgs []config.VariantConfig) []Variant {
	if len(cfgs) == 0 {
		return append([]Variant(nil), DefaultVariants...)
	}
	out := make([]Variant, 0, len(cfgs))
	for _, c := range cfgs {
		v := Variant{Name: c.Name, Description: c.Description, VarsFile: c.VarsFile}
		if v.VarsFile == "" {
			v.VarsFile = v.Name + ".yml"
		}
		out = append(out, v)
	}
	return out
}

// Harden levels understood by the cloud-init role.
const (
	HardenBasic    = "basic"
	HardenStandard = "standard"
	HardenFull     = "full"
)

// HardenLevels lists the accepted harden_level values.
var HardenLevels = []string{HardenBasic, HardenStandard, HardenFull}

// AllDevEnvs is what "all" expands to.
var AllDevEnvs = []string{"python", "js", "go", "lua"}

// Custom holds the answers for the custom variant. It is written as the
// vars file for the run.
type Custom struct {
	EnableGUI    bool     `yaml:"enable_gui"`
	EnableNixGUI bool     `yaml:"enable_nix_gui"`
	DevEnvs      []string `yaml:"dev_envs"`
	HardenLevel  string   `yaml:"harden_level"`
}

// ParseDevEnvs splits a comma list of dev environments. "all" selects
// every environment; blanks are dropped.
func ParseDevEnvs(s string) []string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return append([]string(nil), AllDevEnvs...)
	}
	envs := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			envs = append(envs, part)
		}
	}
	return envs
}

// ParseYes treats any answer starting with y or Y as yes.
func ParseYes(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && (s[0] == 'y' || s[0] == 'Y')
}

// ValidateHardenLevel accepts an empty value, which means standard.
func ValidateHardenLevel(level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil
	}
	for _, l := range HardenLevels {
		if level == l {
			return nil
		}
	}
	return errors.New(errors.ErrInput,
		fmt.Sprintf("Unknown harden level %q", level),
		"Use one of: "+strings.Join(HardenLevels, ", "))
}

// Normalize fills defaults and checks the harden level.
func (c Custom) Normalize() (Custom, error) {
	c.HardenLevel = strings.TrimSpace(c.HardenLevel)
	if c.HardenLevel == "" {
		c.HardenLevel = HardenStandard
	}
	if err := ValidateHardenLevel(c.HardenLevel); err != nil {
		return c, err
	}
	if c.DevEnvs == nil {
		c.DevEnvs = []string{}
	}
	return c, nil
}

// Marshal renders the answers as an Ansible vars file.
func (c Custom) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte("---\n"), data...), nil
}
