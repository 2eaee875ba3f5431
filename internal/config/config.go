// Package config loads the installer inputs using Viper.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
)

// ConfigName is the config file name without extension.
const ConfigName = "setup-vulkan-sdk"

// EnvPrefix matches the GitHub Actions INPUT_<NAME> convention.
const EnvPrefix = "INPUT"

// Keys.
const (
	KeyVulkanVersion      = "vulkan_version"
	KeyDestination        = "destination"
	KeyInstallRuntime     = "install_runtime"
	KeyCache              = "cache"
	KeyOptionalComponents = "optional_components"
	KeyStripdown          = "stripdown"
	KeyCacheDir           = "cache_dir"
	KeyInstallerTimeout   = "installer_timeout"
	KeyMetadataURL        = "metadata_url"
	KeyDownloadURL        = "download_url"
)

// Defaults.
const (
	DefaultVersion          = "latest"
	DefaultInstallerTimeout = 30 * time.Minute
	DefaultMetadataURL      = "https://vulkan.lunarg.com"
	DefaultDownloadURL      = "https://sdk.lunarg.com"
)

// Config holds the resolved inputs.
type Config struct {
	VulkanVersion      string        `mapstructure:"vulkan_version" yaml:"vulkan_version"`
	Destination        string        `mapstructure:"destination" yaml:"destination"`
	InstallRuntime     bool          `mapstructure:"install_runtime" yaml:"install_runtime"`
	Cache              bool          `mapstructure:"cache" yaml:"cache"`
	OptionalComponents []string      `mapstructure:"optional_components" yaml:"optional_components"`
	Stripdown          bool          `mapstructure:"stripdown" yaml:"stripdown"`
	CacheDir           string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	InstallerTimeout   time.Duration `mapstructure:"installer_timeout" yaml:"installer_timeout"`
	MetadataURL        string        `mapstructure:"metadata_url" yaml:"metadata_url"`
	DownloadURL        string        `mapstructure:"download_url" yaml:"download_url"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName(ConfigName)
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault(KeyVulkanVersion, DefaultVersion)
	viper.SetDefault(KeyDestination, "")
	viper.SetDefault(KeyInstallRuntime, false)
	viper.SetDefault(KeyCache, false)
	viper.SetDefault(KeyOptionalComponents, []string{})
	viper.SetDefault(KeyStripdown, false)
	viper.SetDefault(KeyCacheDir, "")
	viper.SetDefault(KeyInstallerTimeout, DefaultInstallerTimeout)
	viper.SetDefault(KeyMetadataURL, DefaultMetadataURL)
	viper.SetDefault(KeyDownloadURL, DefaultDownloadURL)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load, defaults apply
		case errors.As(err, &notFound):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrInvalidInput)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidInput)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidInput)
	}

	if cfg.VulkanVersion == "" {
		cfg.VulkanVersion = DefaultVersion
	}
	if cfg.InstallerTimeout <= 0 {
		cfg.InstallerTimeout = DefaultInstallerTimeout
	}
	return &cfg, nil
}

// Settings returns cfg keyed by input name with durations as strings, ready
// for any map encoder.
func (c *Config) Settings() map[string]any {
	components := c.OptionalComponents
	if components == nil {
		components = []string{}
	}
	return map[string]any{
		KeyVulkanVersion:      c.VulkanVersion,
		KeyDestination:        c.Destination,
		KeyInstallRuntime:     c.InstallRuntime,
		KeyCache:              c.Cache,
		KeyOptionalComponents: components,
		KeyStripdown:          c.Stripdown,
		KeyCacheDir:           c.CacheDir,
		KeyInstallerTimeout:   c.InstallerTimeout.String(),
		KeyMetadataURL:        c.MetadataURL,
		KeyDownloadURL:        c.DownloadURL,
	}
}
