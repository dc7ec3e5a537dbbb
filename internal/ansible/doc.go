// Package ansible drives the Ansible command line tools: it installs
// Ansible when missing, installs Galaxy collections, writes the inventory
// and builds ansible-playbook invocations. Every subprocess goes through a
// Runner so the command lines can be checked without Ansible installed.
package ansible
