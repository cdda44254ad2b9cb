package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestFlagsBindTargets(t *testing.T) {
	var all, asJSON bool
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, &all, "Include tasks whose time has passed")
	AddJSONFlag(cmd, &asJSON)

	if err := cmd.ParseFlags([]string{"--all", "--json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !all || !asJSON {
		t.Fatalf("all=%v json=%v, want both true", all, asJSON)
	}
	if usage := cmd.Flags().Lookup("all").Usage; usage != "Include tasks whose time has passed" {
		t.Fatalf("usage = %q", usage)
	}
}

func TestAddAllFlagDefaultUsage(t *testing.T) {
	var all bool
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, &all, "")

	if usage := cmd.Flags().Lookup("all").Usage; usage != "Include hidden items" {
		t.Fatalf("usage = %q", usage)
	}
}
