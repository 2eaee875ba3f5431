package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/setup-vulkan-sdk/cmd"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit, build date and host platform of setup-vulkan-sdk.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		out := c.OutOrStdout()
		fmt.Fprintf(out, "setup-vulkan-sdk version %s\n", cmd.Version)
		fmt.Fprintf(out, "  commit: %s\n", cmd.Commit)
		fmt.Fprintf(out, "  built:  %s\n", cmd.Date)
		fmt.Fprintf(out, "  host:   %s/%s (%s-%s)\n", runtime.GOOS, runtime.GOARCH, string(platform.Current()), platform.CurrentArch())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
