package shell

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vibesh/internal/execx"
	"vibesh/internal/inventory"
)

func TestParsePkgListing(t *testing.T) {
	output := "Listing... Done\npython/stable 3.12.1 aarch64 [installed]\nnodejs/stable 20.10.0 aarch64 [installed]\n\n"
	names := parsePkgListing(output)
	want := []string{"python", "nodejs"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestParsePipListing(t *testing.T) {
	output := "flask==3.0.0\nrequests==2.31.0\n# comment\nnot-frozen\n"
	names := parsePipListing(output)
	want := []string{"flask", "requests"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestLoadInventorySeedsFromListings(t *testing.T) {
	inv := inventory.New()
	run := func(_ context.Context, command string, _ time.Duration) (*execx.Result, error) {
		switch {
		case command == packageListings[0].Command:
			return &execx.Result{Output: "python/stable 3.12.1 aarch64 [installed]\n"}, nil
		case command == packageListings[2].Command:
			return &execx.Result{Output: "flask==3.0.0\n"}, nil
		}
		return &execx.Result{ExitCode: 127}, nil
	}

	loadInventory(context.Background(), inv, run)

	if !inv.Has(inventory.Capability{Kind: inventory.KindSystem, Name: "python"}) {
		t.Error("expected system:python to be seeded")
	}
	if !inv.Has(inventory.Capability{Kind: inventory.KindLanguage, Name: "flask"}) {
		t.Error("expected language:flask to be seeded")
	}
}

func TestLoadInventoryFirstSystemListingWins(t *testing.T) {
	inv := inventory.New()
	var commands []string
	run := func(_ context.Context, command string, _ time.Duration) (*execx.Result, error) {
		commands = append(commands, command)
		if command == packageListings[0].Command {
			return &execx.Result{Output: "bash/stable 5.2 aarch64 [installed]\n"}, nil
		}
		return &execx.Result{ExitCode: 1}, nil
	}

	loadInventory(context.Background(), inv, run)

	for _, command := range commands {
		if command == packageListings[1].Command {
			t.Error("dpkg listing should be skipped once pkg listing succeeds")
		}
	}
}

func TestLoadInventoryToleratesFailure(t *testing.T) {
	inv := inventory.New()
	run := func(context.Context, string, time.Duration) (*execx.Result, error) {
		return nil, fmt.Errorf("exec not available")
	}

	loadInventory(context.Background(), inv, run)

	if inv.Len() != 0 {
		t.Errorf("expected empty inventory, got %d entries", inv.Len())
	}
}
