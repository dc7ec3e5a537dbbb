// Package cloudinit renders cloud-config files through the cloud-init
// role of the playbook repository. A variant is a vars file passed to
// ansible-playbook; the "custom" variant builds that vars file from a
// handful of answers.
package cloudinit
