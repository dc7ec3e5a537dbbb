package remote

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
)

// HostEntry is a concrete Host block from an SSH config file.
type HostEntry struct {
	Alias        string
	Hostname     string
	User         string
	Port         string
	IdentityFile string
}

// Target converts the entry to a deploy target. HostName falls back to
// the alias, as ssh itself does.
func (h HostEntry) Target() ansible.Target {
	t := ansible.Target{
		Host:    h.Hostname,
		User:    h.User,
		KeyPath: h.IdentityFile,
	}
	if t.Host == "" {
		t.Host = h.Alias
	}
	if p, err := strconv.Atoi(h.Port); err == nil {
		t.Port = p
	}
	return t
}

// SSHConfig is a parsed SSH config file.
type SSHConfig struct {
	Path  string
	Hosts []HostEntry
	// MatchLine is the line of the first Match block, 0 if none. Entries
	// after it are not read.
	MatchLine int
}

// DefaultSSHConfigPath is ~/.ssh/config.
func DefaultSSHConfigPath() string {
	return config.ExpandTilde("~/.ssh/config")
}

// LoadSSHConfig parses the SSH config at path. A missing file yields an
// empty config.
func LoadSSHConfig(path string) (*SSHConfig, error) {
	sc := &SSHConfig{Path: path}

	content, matchLine, err := readUntilMatch(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sc, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't read "+path,
			"Check file permissions.")
	}
	sc.MatchLine = matchLine

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't parse "+path,
			"Check the syntax with: ssh -G <host>")
	}

	seen := make(map[string]bool)
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") || seen[alias] {
				continue
			}
			seen[alias] = true

			entry := HostEntry{Alias: alias}
			entry.Hostname, _ = cfg.Get(alias, "HostName")
			entry.User, _ = cfg.Get(alias, "User")
			entry.Port, _ = cfg.Get(alias, "Port")
			if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
				entry.IdentityFile = config.ExpandTilde(identity)
			}
			sc.Hosts = append(sc.Hosts, entry)
		}
	}

	sort.Slice(sc.Hosts, func(i, j int) bool {
		return sc.Hosts[i].Alias < sc.Hosts[j].Alias
	})
	return sc, nil
}

// Lookup finds the entry for alias.
func (sc *SSHConfig) Lookup(alias string) (HostEntry, bool) {
	for _, h := range sc.Hosts {
		if h.Alias == alias {
			return h, true
		}
	}
	return HostEntry{}, false
}

// Aliases lists the concrete host aliases in sorted order.
func (sc *SSHConfig) Aliases() []string {
	out := make([]string, len(sc.Hosts))
	for i, h := range sc.Hosts {
		out[i] = h.Alias
	}
	return out
}

// FromSSHConfig returns the target for alias from the config at path.
func FromSSHConfig(path, alias string) (ansible.Target, error) {
	sc, err := LoadSSHConfig(path)
	if err != nil {
		return ansible.Target{}, err
	}
	entry, ok := sc.Lookup(alias)
	if !ok {
		suggestion := "Check the Host entries in " + path + "."
		if sc.MatchLine > 0 {
			suggestion = "Entries after the Match block at line " + strconv.Itoa(sc.MatchLine) +
				" are not read. Move the Host block above it."
		}
		return ansible.Target{}, errors.New(errors.ErrSSH,
			"No Host '"+alias+"' in "+path,
			suggestion)
	}
	return entry.Target(), nil
}

// readUntilMatch reads the file up to its first Match directive, which
// ssh_config cannot decode.
func readUntilMatch(path string) ([]byte, int, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			return []byte(strings.Join(lines[:i], "\n")), i + 1, nil
		}
	}
	return content, 0, nil
}
