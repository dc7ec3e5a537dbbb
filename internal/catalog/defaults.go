package catalog

// DefaultRoles is the role list shipped with the playbooks, in run order.
var DefaultRoles = []string{
	"os-detection",
	"prerequisites",
	"base-installs",
	"docker-setup",
	"shell-customize",
	"nvim-setup",
	"dev-envs",
	"security-harden",
	"fonts",
	"terminals",
	"gui-installs",
	"nix-gui-installs",
	"cloud-init",
}

// DefaultMetas mirrors the "all" and "full" shortcuts of the picker.
var DefaultMetas = []MetaSpec{
	{Name: "all", Description: "all except cloud-init", Except: []string{"cloud-init"}},
	{Name: "full", Description: "all roles including cloud-init"},
}

// Default returns the catalog built from DefaultRoles and DefaultMetas.
func Default() *Catalog {
	c, err := New(DefaultRoles, DefaultMetas)
	if err != nil {
		panic("catalog: invalid built-in defaults: " + err.Error())
	}
	return c
}
