package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/cache"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/config"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/download"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/env"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/install"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/version"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Resolve, download and install the Vulkan SDK",
	Long: `Install resolves the requested SDK version, restores it from the cache
or downloads and installs it, verifies the result and exports VULKAN_SDK,
VULKAN_VERSION and PATH (plus LD_LIBRARY_PATH and VK_LAYER_PATH on linux).

Inside GitHub Actions the variables are also appended to $GITHUB_ENV and
$GITHUB_PATH so that later steps see them.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	p, err := currentPlatform(cfg)
	if errors.Is(err, errors.ErrUnsupportedPlatform) {
		logger.Warn("unsupported platform, nothing to install", "platform", string(currentTag()))
		return nil
	}
	if err != nil {
		return err
	}

	hc := newHTTPClient()
	resolver := newResolver(cfg, hc, p.Tag())

	if err := checkInputs(ctx, cfg, p.Tag(), resolver); err != nil {
		return err
	}
	components, _ := config.FilterComponents(cfg.OptionalComponents)

	ver, err := resolver.Resolve(ctx, cfg.VulkanVersion)
	if err != nil {
		return err
	}

	dest, err := destination(cfg, p)
	if err != nil {
		return err
	}

	// created by the first successful download
	workDir := filepath.Join(paths.TempDir(), fmt.Sprintf("setup-vulkan-sdk-%d-%d", os.Getpid(), time.Now().UnixNano()))
	defer os.RemoveAll(workDir)

	downloader := download.NewOrchestrator(download.NewClient(hc), cfg.DownloadURL, p, workDir)
	opts := []install.Option{}
	if cfg.Cache {
		opts = append(opts, install.WithCache(cache.NewBridge(cache.NewLocalStore(cache.WithDir(cfg.CacheDir)))))
	}

	res, err := install.NewOrchestrator(p, downloader, opts...).Run(ctx, install.Request{
		Version:            ver,
		Destination:        dest,
		InstallRuntime:     cfg.InstallRuntime,
		UseCache:           cfg.Cache,
		Stripdown:          cfg.Stripdown,
		OptionalComponents: components,
	})
	if err != nil {
		return err
	}

	if !res.Verified {
		logger.Warn("SDK install could not be verified, environment not exported", "path", res.InstallPath)
		return nil
	}
	if err := publish(ctx, p, res); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "VULKAN_SDK=%s\n", res.SDKRoot)
	fmt.Fprintf(out, "VULKAN_VERSION=%s\n", res.Version)
	return nil
}

// checkInputs logs input warnings and rejects malformed inputs. An unknown
// version gets the list of published versions attached when the metadata
// service is reachable.
func checkInputs(ctx context.Context, cfg *config.Config, tag platform.Tag, resolver *version.Resolver) error {
	logger := logging.FromContext(ctx)
	result := config.Lint(cfg, tag)
	for _, w := range result.Warnings() {
		if w.Hint != "" {
			logger.Warn(w.Error(), "hint", w.Hint)
		} else {
			logger.Warn(w.Error())
		}
	}

	err := result.Err()
	if err == nil {
		return nil
	}
	if version.Validate(cfg.VulkanVersion) != nil {
		if available, aerr := resolver.Available(ctx); aerr == nil && len(available) > 0 {
			err = errors.WithDetailf(err, "available versions: %s", strings.Join(available, ", "))
		}
	}
	return errors.NewUserError(err, "Check the action inputs")
}

// publish exports the SDK environment to this process and, inside GitHub
// Actions, to later steps.
func publish(ctx context.Context, p platform.Platform, res *install.Result) error {
	sinks := []env.Sink{env.ProcessSink{}}
	if gh, ok := env.GitHubSinkFromEnv(); ok {
		sinks = append(sinks, gh)
	}
	changes := p.Environment(res.InstallPath, res.Version)
	if err := env.NewPublisher(sinks...).Publish(ctx, changes); err != nil {
		return errors.Wrap(err, "exporting environment")
	}
	logging.FromContext(ctx).Info("exported environment", "VULKAN_SDK", res.SDKRoot)
	return nil
}
