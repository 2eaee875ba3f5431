package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

var (
	versionsSelect   bool
	versionsPlatform string
)

// selectVersion picks one entry interactively. Tests replace it.
var selectVersion = func(versions []string, latest string) (string, error) {
	idx, err := fuzzyfinder.Find(
		versions,
		func(i int) string { return versions[i] },
		fuzzyfinder.WithPromptString("version> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			if versions[i] == latest {
				return versions[i] + "\n\nlatest release"
			}
			return versions[i]
		}),
	)
	if err != nil {
		return "", err
	}
	return versions[idx], nil
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List published SDK versions",
	Long: `List the SDK versions published for a platform, newest first. The
latest release is marked with an asterisk.

With --select an interactive finder is opened and the chosen version is
printed, ready to be passed to --vulkan-version.`,
	Example: `  setup-vulkan-sdk versions
  setup-vulkan-sdk versions --platform windows
  setup-vulkan-sdk install --vulkan-version "$(setup-vulkan-sdk versions --select)"`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsSelect, "select", false, "choose a version interactively")
	versionsCmd.Flags().StringVar(&versionsPlatform, "platform", "", "platform to list (windows, linux, mac; default: host)")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	tag := currentTag()
	if versionsPlatform != "" {
		tag = platform.Tag(versionsPlatform)
	}
	if !tag.Known() {
		return errors.NewUserError(
			errors.WithDetailf(errors.ErrUnsupportedPlatform, "platform %q", string(tag)),
			"Use one of: windows, linux, mac",
		)
	}

	resolver := newResolver(cfg, newHTTPClient(), tag)
	available, err := resolver.Available(ctx)
	if err != nil {
		return err
	}
	if len(available) == 0 {
		return errors.WithDetailf(errors.ErrVersionResolution, "no versions published for %s", string(tag))
	}

	// best effort; the list is still useful without the marker
	latest, _ := resolver.Resolve(ctx, "latest")

	out := cmd.OutOrStdout()
	if versionsSelect {
		chosen, err := selectVersion(available, latest)
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "selecting version")
		}
		fmt.Fprintln(out, chosen)
		return nil
	}

	return printVersions(out, available, latest)
}

func printVersions(w io.Writer, versions []string, latest string) error {
	if latest != "" && !slices.Contains(versions, latest) {
		versions = append([]string{latest}, versions...)
	}
	for _, v := range versions {
		mark := " "
		if v == latest {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", mark, v); err != nil {
			return err
		}
	}
	return nil
}
