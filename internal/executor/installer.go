package executor

import (
	"context"
	"fmt"

	"vibesh/internal/execx"
	"vibesh/internal/inventory"
)

// PackageInstaller installs capabilities through whichever package managers
// the host provides. System packages go through pkg (Termux) or apt-get;
// language packages through pip or npm based on a name heuristic.
type PackageInstaller struct {
	lookPath func(string) bool
	run      CommandRunner
}

// NewPackageInstaller creates an installer backed by the real PATH and shell.
func NewPackageInstaller() *PackageInstaller {
	return &PackageInstaller{
		lookPath: execx.LookPath,
		run: func(ctx context.Context, command string) (*execx.Result, error) {
			return execx.Run(ctx, command, execx.InstallTimeout)
		},
	}
}

// Install runs the appropriate package-manager command for the capability.
// Installs are idempotent at the package-manager level, so retrying after a
// partial failure is safe.
func (p *PackageInstaller) Install(ctx context.Context, c inventory.Capability) error {
	command, err := p.installCommand(c)
	if err != nil {
		return err
	}

	res, err := p.run(ctx, command)
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("install exited with code %d", res.ExitCode)
	}
	return nil
}

func (p *PackageInstaller) installCommand(c inventory.Capability) (string, error) {
	switch c.Kind {
	case inventory.KindSystem:
		if p.lookPath("pkg") {
			return fmt.Sprintf("pkg install -y %s", c.Name), nil
		}
		if p.lookPath("apt-get") {
			return fmt.Sprintf("apt-get install -y %s", c.Name), nil
		}
		return "", fmt.Errorf("no supported system package manager found")
	case inventory.KindLanguage:
		if isNodePackage(c.Name) {
			if !p.lookPath("npm") {
				return "", fmt.Errorf("npm not available")
			}
			return fmt.Sprintf("npm install -g %s", c.Name), nil
		}
		if !p.lookPath("pip") {
			return "", fmt.Errorf("pip not available")
		}
		return fmt.Sprintf("pip install %s", c.Name), nil
	default:
		return "", fmt.Errorf("unknown capability kind %q", c.Kind)
	}
}

// nodePackages are the language packages installed via npm rather than pip.
var nodePackages = map[string]bool{
	"express":    true,
	"typescript": true,
}

func isNodePackage(name string) bool {
	return nodePackages[name]
}
