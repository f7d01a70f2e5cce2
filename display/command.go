// Package display renders run reports for humans (pterm tables) and for
// machines (JSON).
package display

import (
	"github.com/spf13/cobra"
)

// ShouldOutputJSON reports whether the command was asked for JSON output,
// through its own --json flag or the global one
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}
	v, _ := cmd.Root().PersistentFlags().GetBool("json")
	return v
}
