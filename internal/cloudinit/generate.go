package cloudinit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/logger"
)

// Generator runs the cloud-init role for a variant.
type Generator struct {
	// Dir is the playbook directory; ansible-playbook runs there.
	Dir string
	// Site is the playbook holding the cloud-init role.
	Site string
	// OutputDir is relative to Dir unless absolute.
	OutputDir string
	Variants  []Variant

	// DryRun prints the custom vars to Out instead of writing them.
	DryRun bool
	Out    io.Writer

	Runner   ansible.Runner
	LookPath ansible.LookPathFunc
	Log      logger.Logger
}

// NewGenerator builds a Generator from the loaded configuration.
func NewGenerator(cfg *config.Config, r ansible.Runner) *Generator {
	return &Generator{
		Dir:       cfg.PlaybookDir,
		Site:      cfg.Playbooks.Site,
		OutputDir: cfg.CloudInit.OutputDir,
		Variants:  VariantsFrom(cfg.CloudInit.Variants),
		Runner:    r,
		Log:       logger.NewEnvLogger("[cloud-init]"),
	}
}

// Result describes a generated file.
type Result struct {
	Variant string
	// Output is relative to the playbook directory.
	Output string
}

// Lookup finds a predefined variant by name.
func (g *Generator) Lookup(name string) (Variant, bool) {
	for _, v := range g.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Choose maps a typed choice to a variant name. Unknown choices fall back
// to minimal (or the first variant) and report ok=false so the caller can
// warn.
func (g *Generator) Choose(choice string) (name string, ok bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if choice == CustomVariant {
		return CustomVariant, true
	}
	if _, found := g.Lookup(choice); found {
		return choice, true
	}
	if _, found := g.Lookup(FallbackVariant); found || len(g.Variants) == 0 {
		return FallbackVariant, false
	}
	return g.Variants[0].Name, false
}

// OutputPath is where the cloud-config for variant is written.
func (g *Generator) OutputPath(variant string) string {
	return filepath.Join(g.OutputDir, "cloud-config-"+variant+".yaml")
}

func (g *Generator) varsPath(v Variant) string {
	if filepath.IsAbs(v.VarsFile) {
		return v.VarsFile
	}
	return filepath.Join(g.OutputDir, v.VarsFile)
}

func (g *Generator) customVarsPath() string {
	return filepath.Join(g.OutputDir, "cloud-config-"+CustomVariant+"-vars.yml")
}

// Generate renders the cloud-config for a predefined variant.
func (g *Generator) Generate(ctx context.Context, name string) (Result, error) {
	v, ok := g.Lookup(name)
	if !ok {
		return Result{}, errors.New(errors.ErrInput,
			fmt.Sprintf("Unknown cloud-init variant %q", name),
			"Choose one of: "+strings.Join(g.Names(), ", "))
	}
	if err := g.RequireAnsible(); err != nil {
		return Result{}, err
	}
	return g.run(ctx, v.Name, g.varsPath(v))
}

// GenerateCustom writes the answers to a temporary vars file, renders the
// custom variant and removes the vars file again.
func (g *Generator) GenerateCustom(ctx context.Context, c Custom) (Result, error) {
	c, err := c.Normalize()
	if err != nil {
		return Result{}, err
	}
	if err := g.RequireAnsible(); err != nil {
		return Result{}, err
	}

	data, err := c.Marshal()
	if err != nil {
		return Result{}, errors.Wrap(err, "Couldn't encode custom cloud-init vars")
	}
	varsFile := g.customVarsPath()
	abs := varsFile
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.Dir, varsFile)
	}
	if g.DryRun {
		if g.Out != nil {
			fmt.Fprintf(g.Out, "would write %s:\n%s", abs, data)
		}
		return g.run(ctx, CustomVariant, varsFile)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Result{}, errors.Wrap(err, "Couldn't create "+filepath.Dir(abs))
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return Result{}, errors.Wrap(err, "Couldn't write "+abs)
	}
	defer func() {
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			g.log().Warn("couldn't remove %s: %v", abs, err)
		}
	}()

	return g.run(ctx, CustomVariant, varsFile)
}

// Names lists the variant names, custom last.
func (g *Generator) Names() []string {
	names := make([]string, 0, len(g.Variants)+1)
	for _, v := range g.Variants {
		names = append(names, v.Name)
	}
	return append(names, CustomVariant)
}

// RequireAnsible fails when ansible-playbook is not on PATH. Cloud-config
// generation never installs Ansible.
func (g *Generator) RequireAnsible() error {
	if ansible.Detect(g.LookPath) {
		return nil
	}
	return errors.New(errors.ErrAnsible,
		"Ansible not found. Install Ansible first.",
		"Run 'ansetup local' once, or install ansible with your package manager.")
}

func (g *Generator) run(ctx context.Context, variant, varsFile string) (Result, error) {
	out := g.OutputPath(variant)
	cmd := ansible.CloudInitPlaybook(g.Dir, g.Site, out, varsFile).Command()
	g.log().Debug("running %s", cmd)

	if _, err := g.Runner.Output(ctx, cmd); err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrAnsible,
			fmt.Sprintf("Failed to generate %s", variant),
			fmt.Sprintf("Check the cloud-init tasks in %s and the vars in %s.", g.Site, varsFile))
	}
	return Result{Variant: variant, Output: out}, nil
}

func (g *Generator) log() logger.Logger {
	if g.Log == nil {
		return logger.Noop()
	}
	return g.Log
}
