package remote

import (
	stderrors "errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
)

// Sentinels for rejected input. Each is wrapped in an *errors.Error with
// code INPUT so the CLI can print a suggestion and prompt again.
var (
	ErrEmptyHost   = stderrors.New("server IP/hostname cannot be empty")
	ErrInvalidHost = stderrors.New("invalid IP address or hostname format")
	ErrEmptyUser   = stderrors.New("SSH username cannot be empty")
	ErrInvalidPort = stderrors.New("invalid port number")
	ErrPortRange   = stderrors.New("port must be between 1 and 65535")
	ErrKeyNotFound = stderrors.New("SSH key file not found")
)

// ValidateHost accepts an IPv4/IPv6 address or a hostname made of
// letters, digits, '-', '_' and '.'.
func ValidateHost(host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return errors.WrapWithCode(ErrEmptyHost, errors.ErrInput,
			"Server IP/Hostname cannot be empty.",
			"Enter an address like 192.168.1.10 or a name like build.example.com.")
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return nil
	}
	if !isHostname(host) {
		return errors.WrapWithCode(ErrInvalidHost, errors.ErrInput,
			fmt.Sprintf("Invalid IP address or hostname format: %q", host),
			"Use letters, digits, '-' and '.' only, or a plain IP address.")
	}
	return nil
}

func isHostname(s string) bool {
	if len(s) > 253 || strings.HasPrefix(s, ".") || strings.HasPrefix(s, "-") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '.', r == '_':
		default:
			return false
		}
	}
	return true
}

// ValidateUser rejects an empty or whitespace-containing username.
func ValidateUser(user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return errors.WrapWithCode(ErrEmptyUser, errors.ErrInput,
			"SSH Username cannot be empty.",
			"Use the account you log in with, e.g. 'ubuntu' or 'ec2-user'.")
	}
	if strings.ContainsAny(user, " \t") {
		return errors.New(errors.ErrInput,
			fmt.Sprintf("SSH username %q contains whitespace", user),
			"Use the plain account name.")
	}
	return nil
}

// ParsePort parses a port; empty input means 22.
func ParsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ansible.DefaultSSHPort, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.WrapWithCode(ErrInvalidPort, errors.ErrInput,
			"Invalid port number. Please enter a number.",
			"SSH usually listens on 22.")
	}
	if port < 1 || port > 65535 {
		return 0, errors.WrapWithCode(ErrPortRange, errors.ErrInput,
			"Port must be between 1 and 65535.",
			"SSH usually listens on 22.")
	}
	return port, nil
}

// CheckKey expands ~ and ${HOME} in path and confirms the file exists.
// An empty path is allowed and means password authentication.
func CheckKey(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	expanded := config.ExpandPath(path)
	info, err := os.Stat(expanded)
	if err != nil {
		return expanded, errors.WrapWithCode(ErrKeyNotFound, errors.ErrInput,
			fmt.Sprintf("SSH key file not found at '%s'.", expanded),
			"Check the path, or leave it blank to use a password.")
	}
	if info.IsDir() {
		return expanded, errors.WrapWithCode(ErrKeyNotFound, errors.ErrInput,
			fmt.Sprintf("'%s' is a directory, not a key file.", expanded),
			"Point at the private key, e.g. ~/.ssh/id_ed25519.")
	}
	return expanded, nil
}

// ValidateTarget runs every check on t.
func ValidateTarget(t ansible.Target) error {
	if err := ValidateHost(t.Host); err != nil {
		return err
	}
	if err := ValidateUser(t.User); err != nil {
		return err
	}
	if t.Port < 0 || t.Port > 65535 {
		return errors.WrapWithCode(ErrPortRange, errors.ErrInput,
			"Port must be between 1 and 65535.",
			"SSH usually listens on 22.")
	}
	if t.KeyPath != "" {
		if _, err := CheckKey(t.KeyPath); err != nil {
			return err
		}
	}
	return nil
}
