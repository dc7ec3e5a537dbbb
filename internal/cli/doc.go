// Package cli implements the ansetup command-line interface.
//
// Each cobra command loads the config into an App and hands it to a
// workflow function (runLocal, runRemote, runCloudInit). The App holds the
// collaborators that touch the outside world (the ansible Runner, PATH
// lookup, prompts, menus and the SSH probe) so tests can swap them out.
//
// # Commands
//
//	ansetup local        - apply roles to this machine
//	ansetup remote       - apply roles to a server over SSH
//	ansetup cloud-init   - render a cloud-config variant
//	ansetup roles        - list roles and meta-selections
//	ansetup init         - write a starter .ansetup.yaml
//
// # Role selection
//
// --roles takes role and meta-selection names and skips the menu.
// Otherwise the menu style comes from --menu or the config: the checklist
// when stdin is a terminal, the numbered menu when it isn't. Quitting the
// menu (or any prompt) prints "Exiting without changes." and exits 0.
package cli
