// Package inventory tracks which system and language packages are known to be
// installed. The core never scans the machine itself: the shell populates the
// inventory from an injected lister, and the executor writes through after
// successful installs so repeated runs of the same plan are idempotent.
package inventory

import "strings"

// Kind distinguishes system packages from language packages.
type Kind string

const (
	KindSystem   Kind = "system"
	KindLanguage Kind = "language"
)

// Capability is a named installable dependency.
type Capability struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

func (c Capability) String() string {
	return string(c.Kind) + ":" + c.Name
}

// Inventory is an in-memory set of installed capabilities. It is only ever
// touched by the single active thread of control between commands, so no
// locking is needed.
type Inventory struct {
	installed map[Capability]bool
}

// New creates an empty inventory.
func New() *Inventory {
	return &Inventory{installed: make(map[Capability]bool)}
}

// Has reports whether the capability is known to be installed. Name matching
// is case-insensitive; package managers disagree on casing.
func (inv *Inventory) Has(c Capability) bool {
	return inv.installed[normalize(c)]
}

// Add records a capability as installed. Adding an already-present capability
// is a no-op.
func (inv *Inventory) Add(c Capability) {
	inv.installed[normalize(c)] = true
}

// Len returns the number of known capabilities.
func (inv *Inventory) Len() int {
	return len(inv.installed)
}

// AddNames records a batch of package names under one kind. Used by the shell
// to load the output of an external package listing.
func (inv *Inventory) AddNames(kind Kind, names []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		inv.Add(Capability{Kind: kind, Name: name})
	}
}

func normalize(c Capability) Capability {
	return Capability{Kind: c.Kind, Name: strings.ToLower(strings.TrimSpace(c.Name))}
}
