package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/changeset/display"
	"github.com/teranos/changeset/version"
)

func newVersionCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show changeset version information",
		Long:        `Display version, build time, commit hash, and platform information for the changeset binary.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if env.jsonOutput(cmd) {
				return display.WriteJSON(env.Stdout, info)
			}
			fmt.Fprintln(env.Stdout, info.String())
			fmt.Fprintf(env.Stdout, "Platform: %s\n", info.Platform)
			fmt.Fprintf(env.Stdout, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
}
