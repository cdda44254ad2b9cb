// Package listflags registers flags shared by list-style commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds a --all flag that widens a listing to include hidden items.
func AddAllFlag(cmd *cobra.Command, target *bool, usage string) {
	if usage == "" {
		usage = "Include hidden items"
	}
	cmd.Flags().BoolVar(target, "all", false, usage)
}

// AddJSONFlag adds a --json flag selecting machine-readable output.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}
