package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ProbeFailReason categorizes why a probe failed.
type ProbeFailReason int

const (
	ProbeFailUnknown ProbeFailReason = iota
	ProbeFailTimeout
	ProbeFailRefused
	ProbeFailUnreachable
	ProbeFailAuth
	ProbeFailHostKey
)

// String returns a human-readable description of the failure reason.
func (r ProbeFailReason) String() string {
	switch r {
	case ProbeFailTimeout:
		return "connection timed out"
	case ProbeFailRefused:
		return "connection refused"
	case ProbeFailUnreachable:
		return "host unreachable"
	case ProbeFailAuth:
		return "authentication failed"
	case ProbeFailHostKey:
		return "host key verification failed"
	default:
		return "unknown error"
	}
}

// ProbeError represents a failed probe with categorized failure reason.
type ProbeError struct {
	Address string
	Reason  ProbeFailReason
	Cause   error
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("probe %s failed: %s (%v)", e.Address, e.Reason, e.Cause)
	}
	return fmt.Sprintf("probe %s failed: %s", e.Address, e.Reason)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// Suggestion returns a fix-it hint for the failure.
func (e *ProbeError) Suggestion() string {
	switch e.Reason {
	case ProbeFailTimeout:
		return "Host might be offline or blocked by a firewall. Use --skip-probe to deploy anyway."
	case ProbeFailRefused:
		return "Is SSH running on that port? Check --port."
	case ProbeFailUnreachable:
		return "Can't route to the host. Check your network connection."
	case ProbeFailAuth:
		return "Ansible will ask for the SSH password instead."
	case ProbeFailHostKey:
		return "The host key changed. Remove the old entry with: ssh-keygen -R <host>"
	default:
		return "Try connecting manually: ssh -p <port> <user>@<host>"
	}
}

// IsAuthFailure reports whether err is a probe that reached the SSH
// server but could not log in. Deploys continue after such a failure.
func IsAuthFailure(err error) bool {
	var pe *ProbeError
	return stderrors.As(err, &pe) && pe.Reason == ProbeFailAuth
}

// ProbeOptions tunes Probe.
type ProbeOptions struct {
	// Timeout bounds the TCP connect and the SSH handshake separately.
	// Zero means 5s.
	Timeout time.Duration
	// KnownHosts is the known_hosts file; empty means ~/.ssh/known_hosts.
	KnownHosts string
	// NoAgent skips SSH_AUTH_SOCK.
	NoAgent bool
}

// ProbeResult describes a successful probe.
type ProbeResult struct {
	Address string
	Latency time.Duration
	// Handshake is true when an SSH login was attempted and succeeded.
	// Without a usable key or agent only the TCP port is checked.
	Handshake bool
	// EncryptedKeys lists keys skipped because they need a passphrase.
	EncryptedKeys []string
}

// Probe checks that the target's SSH port accepts connections and, when
// a key or agent is available, that it accepts a login. Unknown host
// keys are accepted since ansible-playbook runs its own check.
func Probe(ctx context.Context, t ansible.Target, opts ProbeOptions) (ProbeResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	port := t.Port
	if port == 0 {
		port = ansible.DefaultSSHPort
	}
	address := net.JoinHostPort(t.Host, strconv.Itoa(port))
	res := ProbeResult{Address: address}

	start := time.Now()
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return res, categorizeProbeError(address, err)
	}
	defer conn.Close()

	auth, encrypted, closeAgent := authMethods(t.KeyPath, !opts.NoAgent)
	defer closeAgent()
	res.EncryptedKeys = encrypted
	if len(auth) == 0 {
		res.Latency = time.Since(start)
		return res, nil
	}

	hostKeys, err := hostKeyCallback(opts.KnownHosts)
	if err != nil {
		return res, &ProbeError{Address: address, Reason: ProbeFailHostKey, Cause: err}
	}

	_ = conn.SetDeadline(time.Now().Add(timeout))
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, &ssh.ClientConfig{
		User:            t.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         timeout,
	})
	if err != nil {
		return res, categorizeProbeError(address, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	res.Latency = time.Since(start)
	res.Handshake = true
	return res, nil
}

// authMethods collects the key file and agent signers. Keys that need a
// passphrase are reported instead of used. The returned func releases the
// agent connection and is always safe to call.
func authMethods(keyPath string, useAgent bool) ([]ssh.AuthMethod, []string, func()) {
	var methods []ssh.AuthMethod
	var encrypted []string
	release := func() {}

	if keyPath != "" {
		path := config.ExpandTilde(keyPath)
		if signer, err := loadKey(path); err == nil {
			methods = append(methods, ssh.PublicKeys(signer))
		} else if isPassphraseError(err) {
			encrypted = append(encrypted, path)
		}
	}

	if useAgent {
		if m, conn := agentAuth(); m != nil {
			methods = append(methods, m)
			release = func() { conn.Close() }
		}
	}
	return methods, encrypted, release
}

func loadKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(data)
}

func isPassphraseError(err error) bool {
	var missing *ssh.PassphraseMissingError
	if stderrors.As(err, &missing) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "encrypted") || strings.Contains(msg, "passphrase")
}

// agentAuth returns the agent's signers and the connection backing them,
// which the caller closes once the handshake is over.
func agentAuth() (ssh.AuthMethod, net.Conn) {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil, nil
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, nil
	}
	client := agent.NewClient(conn)
	// An empty agent placed before other methods causes auth failures.
	if signers, err := client.Signers(); err != nil || len(signers) == 0 {
		conn.Close()
		return nil, nil
	}
	return ssh.PublicKeysCallback(client.Signers), conn
}

// HostKeyMismatchError means known_hosts has a different key for the host.
type HostKeyMismatchError struct {
	Hostname     string
	ReceivedType string
	KnownHosts   string
}

func (e *HostKeyMismatchError) Error() string {
	return fmt.Sprintf("host key mismatch for %s: server sent %s key (see %s)", e.Hostname, e.ReceivedType, e.KnownHosts)
}

// hostKeyCallback accepts hosts missing from known_hosts and rejects
// hosts whose recorded key differs.
func hostKeyCallback(path string) (ssh.HostKeyCallback, error) {
	if path == "" {
		path = config.ExpandTilde("~/.ssh/known_hosts")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // nothing recorded to compare against
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts: %w", err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) {
			if len(keyErr.Want) == 0 {
				return nil
			}
			return &HostKeyMismatchError{
				Hostname:     hostname,
				ReceivedType: key.Type(),
				KnownHosts:   path,
			}
		}
		return err
	}, nil
}

// categorizeProbeError converts a generic error into a ProbeError with
// a categorized failure reason.
func categorizeProbeError(address string, err error) *ProbeError {
	if err == nil {
		return nil
	}
	probeErr := &ProbeError{Address: address, Reason: ProbeFailUnknown, Cause: err}

	var mismatch *HostKeyMismatchError
	if stderrors.As(err, &mismatch) {
		probeErr.Reason = ProbeFailHostKey
		return probeErr
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		probeErr.Reason = ProbeFailTimeout
		return probeErr
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		probeErr.Reason = ProbeFailTimeout
	case strings.Contains(errStr, "connection refused"):
		probeErr.Reason = ProbeFailRefused
	case strings.Contains(errStr, "no route to host"),
		strings.Contains(errStr, "network is unreachable"),
		strings.Contains(errStr, "host is down"),
		strings.Contains(errStr, "no such host"):
		probeErr.Reason = ProbeFailUnreachable
	case strings.Contains(errStr, "unable to authenticate"),
		strings.Contains(errStr, "no supported methods"),
		strings.Contains(errStr, "permission denied"),
		strings.Contains(errStr, "authentication failed"):
		probeErr.Reason = ProbeFailAuth
	case strings.Contains(errStr, "host key"):
		probeErr.Reason = ProbeFailHostKey
	}
	return probeErr
}
