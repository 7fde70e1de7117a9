package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gddload/gddload/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of gddload.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gddload version %s\n", version.Version)
		},
	}
}
