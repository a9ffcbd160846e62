package shell

import (
	"context"
	"strings"
	"time"

	"vibesh/internal/execx"
	"vibesh/internal/inventory"
)

// listingTimeout bounds the startup package listings. Listings are an
// optimization, not a requirement; a slow package manager must not stall the
// shell.
const listingTimeout = 30 * time.Second

// runFunc matches execx.Run.
type runFunc func(ctx context.Context, command string, timeout time.Duration) (*execx.Result, error)

// packageListings are the commands tried to seed each capability kind. The
// first listing of a kind that exits zero wins; later ones of the same kind
// are skipped.
var packageListings = []struct {
	Kind    inventory.Kind
	Command string
	Parse   func(output string) []string
}{
	{inventory.KindSystem, "pkg list-installed 2>/dev/null", parsePkgListing},
	{inventory.KindSystem, "dpkg-query -W -f '${Package}\\n' 2>/dev/null", parsePlainListing},
	{inventory.KindLanguage, "pip list --format=freeze 2>/dev/null", parsePipListing},
}

// loadInventory seeds the inventory from the host's package managers. Every
// listing is best-effort: a missing manager or a failed command just leaves
// that kind sparse, and the executor's skip logic degrades to reinstalling.
func loadInventory(ctx context.Context, inv *inventory.Inventory, run runFunc) {
	seeded := make(map[inventory.Kind]bool)

	for _, listing := range packageListings {
		if seeded[listing.Kind] {
			continue
		}
		res, err := run(ctx, listing.Command, listingTimeout)
		if err != nil || res.ExitCode != 0 {
			continue
		}
		names := listing.Parse(res.Output)
		if len(names) == 0 {
			continue
		}
		inv.AddNames(listing.Kind, names)
		seeded[listing.Kind] = true
	}
}

// parsePkgListing extracts package names from `pkg list-installed` output,
// which looks like "name/stable 1.0 aarch64 [installed]".
func parsePkgListing(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Listing...") {
			continue
		}
		name, _, found := strings.Cut(line, "/")
		if !found || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// parsePipListing extracts package names from `pip list --format=freeze`
// output, which looks like "flask==3.0.0".
func parsePipListing(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, _, found := strings.Cut(line, "==")
		if !found || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// parsePlainListing treats every non-empty line as a package name.
func parsePlainListing(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names
}
