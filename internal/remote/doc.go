// Package remote collects and checks the details of the machine a remote
// deploy targets: input validation for host, port and key, prefill from
// ~/.ssh/config, and a reachability probe before ansible-playbook runs.
package remote
