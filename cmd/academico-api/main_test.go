package main

import "testing"

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Flags().Lookup("config") == nil {
		t.Fatal("--config flag is not registered")
	}
	if cmd.Version != version {
		t.Errorf("Version = %q, want %q", cmd.Version, version)
	}
}
