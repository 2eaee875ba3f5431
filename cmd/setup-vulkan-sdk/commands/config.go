package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/config"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/validator"
	"github.com/thoreinstein/setup-vulkan-sdk/pkg/fileutil"
)

var (
	configShowFormat     string
	configValidateFormat string
	configInitGlobal     bool
	configInitForce      bool
)

func init() {
	configCmd.PersistentFlags().StringVar(&configShowFormat, "output", "yaml", "output format for show: yaml, toml, json")
	configValidateCmd.Flags().StringVar(&configValidateFormat, "format", "", "report format: text, json, actions (default: actions inside GitHub Actions, text otherwise)")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write to the user config directory instead of the working directory")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configValidateCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate inputs",
	Long: `Inspect the effective inputs after merging defaults, the config file,
INPUT_* environment variables and flags.

Without a subcommand, prints the effective inputs.`,
	Example: `  # Show effective inputs
  setup-vulkan-sdk config

  # Check inputs without installing anything
  INPUT_VULKAN_VERSION=1.3 setup-vulkan-sdk config validate

  # Write a config file with the defaults
  setup-vulkan-sdk config init`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective inputs",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check inputs for errors and ignored settings",
	Long: `Check the effective inputs. Malformed values are errors; values that are
ignored on this platform are warnings. Exits 1 when there are errors.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default inputs",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	settings := cfg.Settings()
	var out []byte
	switch configShowFormat {
	case "yaml", "":
		out, err = yaml.Marshal(settings)
	case "toml":
		out, err = toml.Marshal(settings)
	case "json":
		out, err = json.MarshalIndent(settings, "", "  ")
		out = append(out, '\n')
	default:
		return errors.NewUserError(errors.Newf("unknown output format %q", configShowFormat), "Use one of: yaml, toml, json")
	}
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	format := validator.Format(configValidateFormat)
	switch format {
	case "":
		format = validator.FormatText
		if logging.InActions() {
			format = validator.FormatActions
		}
	case validator.FormatText, validator.FormatJSON, validator.FormatActions:
	default:
		return errors.NewUserError(errors.Newf("unknown report format %q", configValidateFormat), "Use one of: text, json, actions")
	}

	result := config.Lint(cfg, currentTag())
	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(result); err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return errors.NewUserError(err, "")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	dir := "."
	if configInitGlobal {
		dir = paths.ConfigDir()
		if err := paths.EnsureDir(dir, 0); err != nil {
			return errors.Wrap(err, "creating config directory")
		}
	}
	path := filepath.Join(dir, config.ConfigName+".yaml")

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("config file already exists: %s", path), "Use --force to overwrite")
	}

	cfg := config.Config{
		VulkanVersion:      config.DefaultVersion,
		OptionalComponents: []string{},
		InstallerTimeout:   config.DefaultInstallerTimeout,
		MetadataURL:        config.DefaultMetadataURL,
		DownloadURL:        config.DefaultDownloadURL,
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
