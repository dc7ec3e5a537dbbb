// Package ui holds the terminal presentation for ansetup.
//
// The role menu comes in two flavors over the same selection.Session:
//
//	PickRoles          - arrow-key checklist on Bubble Tea (raw mode)
//	PickRolesNumbered  - numbered list read line by line through readline
//
// Everything else is plain output: Status prints the [INFO]/[SUCCESS]/
// [WARNING]/[ERROR] lines of a deploy run, Spinner animates long steps,
// RenderRoleTable lists the catalog and PickHost offers the Host blocks of
// ~/.ssh/config as remote targets.
//
// Colors use the basic ANSI palette. DisableColors switches lipgloss to
// the Ascii profile for --no-color and NO_COLOR.
package ui
