package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/doctor"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/version"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorOffline bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false, "show passed checks too")
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "skip the metadata service check")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose an SDK install",
	Long: `Run diagnostic checks on the host platform, the SDK install in the
destination, the exported environment, the cache directory and the
metadata service.

Exit codes:
  0 - No errors (warnings are reported but do not fail)
  1 - Errors present`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	tag := currentTag()

	runner := doctor.NewRunner()
	runner.AddCheck(&doctor.PlatformCheck{Registry: reg, Tag: tag, Arch: platform.CurrentArch()})

	if p, err := reg.Get(tag); err == nil {
		dest, err := destination(cfg, p)
		if err != nil {
			return err
		}
		var pinned string
		if version.IsConcrete(cfg.VulkanVersion) {
			pinned = cfg.VulkanVersion
		}
		runner.AddCheck(&doctor.InstallCheck{Platform: p, Destination: dest, Version: pinned})
	}

	runner.AddCheck(&doctor.EnvCheck{Getenv: os.Getenv})

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = paths.CacheDir()
	}
	runner.AddCheck(&doctor.CacheDirCheck{Dir: cacheDir})

	if !doctorOffline {
		runner.AddCheck(&doctor.MetadataCheck{
			Resolver: newResolver(cfg, newHTTPClient(), tag),
			URL:      cfg.MetadataURL,
		})
	}

	report := runner.Run(ctx)

	out := cmd.OutOrStdout()
	if doctorJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else {
		writeDoctorText(out, report, doctorVerbose)
	}

	if report.HasErrors() {
		return errors.NewUserError(errDoctorErrors, "")
	}
	return nil
}

func writeDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorErrors signals a failing check.
var errDoctorErrors = errors.New("doctor found errors")
