// Package commands implements the CLI commands for setup-vulkan-sdk.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/setup-vulkan-sdk/cmd"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/config"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the value of the --config flag.
var configPath string

// loadedConfig and configLoadErr hold the result of config loading.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

// cliLogger is set once logging is configured.
var cliLogger *slog.Logger

// currentTag returns the host platform tag. Tests replace it.
var currentTag = platform.Current

// inputFlags maps config keys onto the persistent flags that override them.
var inputFlags = map[string]string{
	config.KeyVulkanVersion:      "vulkan-version",
	config.KeyDestination:        "destination",
	config.KeyInstallRuntime:     "install-runtime",
	config.KeyCache:              "cache",
	config.KeyOptionalComponents: "optional-components",
	config.KeyStripdown:          "stripdown",
	config.KeyCacheDir:           "cache-dir",
	config.KeyInstallerTimeout:   "installer-timeout",
	config.KeyMetadataURL:        "metadata-url",
	config.KeyDownloadURL:        "download-url",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", "increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	pf.StringVar(&logFormat, "log-format", "", "log format: text, json, actions (default: actions inside GitHub Actions, text otherwise)")
	pf.StringVar(&logFile, "log-file", "", "write logs to file in JSON format")
	pf.StringVar(&configPath, "config", "", "path to a setup-vulkan-sdk.yaml config file")

	pf.String("vulkan-version", config.DefaultVersion, `SDK version: "latest" or major.minor.build.rev`)
	pf.String("destination", "", "install root (default: C:\\VulkanSDK on windows, ~/vulkan-sdk elsewhere)")
	pf.Bool("install-runtime", false, "install the runtime components (windows only)")
	pf.Bool("cache", false, "restore the SDK from and save it to the cache")
	pf.StringSlice("optional-components", nil, "comma separated optional installer components (windows only)")
	pf.Bool("stripdown", false, "remove non-essential files before caching")
	pf.String("cache-dir", "", "local cache directory (default: $XDG_CACHE_HOME/setup-vulkan-sdk)")
	pf.Duration("installer-timeout", config.DefaultInstallerTimeout, "maximum installer run time")
	pf.String("metadata-url", config.DefaultMetadataURL, "base URL of the version metadata service")
	pf.String("download-url", config.DefaultDownloadURL, "base URL of the SDK download service")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("setup-vulkan-sdk version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	for key, flag := range inputFlags {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
	loadedConfig, configLoadErr = config.Load(configPath)
}

var rootCmd = &cobra.Command{
	Use:   "setup-vulkan-sdk",
	Short: "Install the Vulkan SDK on CI runners",
	Long: `setup-vulkan-sdk resolves, downloads and installs the LunarG Vulkan SDK,
optionally restoring it from and saving it to a cache, and exports
VULKAN_SDK and related variables for later build steps.

Inputs are read from flags, INPUT_<NAME> environment variables (as set
by GitHub Actions) and an optional setup-vulkan-sdk.yaml config file.

Running without a subcommand is the same as running "install".`,
	Example: `  # Install the latest SDK into the default location
  setup-vulkan-sdk

  # Install a specific version with caching
  setup-vulkan-sdk install --vulkan-version 1.3.250.1 --cache --stripdown

  # List published versions
  setup-vulkan-sdk versions`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if configLoadErr != nil {
			return errors.NewUserError(configLoadErr, "Check the config file and INPUT_* variables")
		}
		return nil
	},
	RunE: runInstall,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		// step debug logging of a re-run job
		if v == 0 && os.Getenv("RUNNER_DEBUG") == "1" {
			v = 1
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	switch format {
	case "":
		format = logging.FormatText
		if logging.InActions() {
			format = logging.FormatActions
		}
	case logging.FormatText, logging.FormatJSON, logging.FormatActions:
	default:
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "Use one of: text, json, actions")
	}

	handlers := []slog.Handler{logging.NewFormatHandler(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	cliLogger = slog.New(handler)
	slog.SetDefault(cliLogger)

	// a subcommand keeps the context of its previous execution, so start
	// from the one handed to ExecuteContext
	ctx := cmd.Root().Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, cliLogger))
	return nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Run executes the CLI and returns the process exit code. Failures are logged
// through the default logger, which annotates them inside GitHub Actions.
func Run(ctx context.Context) int {
	err := Execute(ctx)
	if err == nil {
		return errors.ExitSuccess
	}

	exitErr := errors.Classify(err)
	attrs := []any{}
	if exitErr.Suggestion != "" {
		attrs = append(attrs, "hint", exitErr.Suggestion)
	}
	for _, hint := range errors.GetAllHints(err) {
		attrs = append(attrs, "hint", hint)
	}
	l := cliLogger
	if l == nil {
		// flags were not parsed, so no handler is configured
		l = logging.Default()
	}
	l.Error(exitErr.Error(), attrs...)
	return exitErr.Code
}
