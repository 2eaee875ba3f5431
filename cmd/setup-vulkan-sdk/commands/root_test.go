package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// execute runs the root command with args in an isolated environment and
// returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	isolate(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

// isolate resets global command state and points every directory the CLI
// touches at a temp dir.
func isolate(t *testing.T) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home+"/.config")
	t.Setenv("XDG_CACHE_HOME", home+"/.cache")
	t.Setenv("RUNNER_TEMP", t.TempDir())
	t.Setenv("RUNNER_DEBUG", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITHUB_ENV", "")
	t.Setenv("GITHUB_PATH", "")
	t.Chdir(t.TempDir())

	viper.Reset()
	resetFlags(rootCmd)
	verbosity, quiet, logFormat, logFile, configPath = 0, false, "", "", ""
	versionsSelect, versionsPlatform = false, ""
	doctorJSON, doctorVerbose, doctorOffline = false, false, false
	configValidateFormat, configInitGlobal, configInitForce = "", false, false
	loadedConfig, configLoadErr = nil, nil

	oldTag, oldClient, oldSelect := currentTag, newHTTPClient, selectVersion
	t.Cleanup(func() {
		currentTag, newHTTPClient, selectVersion = oldTag, oldClient, oldSelect
		viper.Reset()
	})
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	//nolint:staticcheck // cobra copies the root context only into nil contexts
	cmd.SetContext(nil)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func withTag(t *testing.T, tag platform.Tag) {
	t.Helper()
	old := currentTag
	currentTag = func() platform.Tag { return tag }
	t.Cleanup(func() { currentTag = old })
}

func withClient(t *testing.T, hc *http.Client) {
	t.Helper()
	old := newHTTPClient
	newHTTPClient = func() *http.Client { return hc }
	t.Cleanup(func() { newHTTPClient = old })
}

func TestSetupLogging_QuietAndVerbose(t *testing.T) {
	_, _, err := execute(t, "version", "-q", "-v")
	if err == nil {
		t.Fatal("expected error for --quiet with --verbose")
	}
}

func TestSetupLogging_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "version", "--log-format", "xml")
	if err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestSetupLogging_LogFile(t *testing.T) {
	logPath := t.TempDir() + "/run.log"
	withTag(t, "plan9")

	_, _, err := execute(t, "install", "--log-file", logPath)
	if err != nil {
		t.Fatalf("install: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !bytes.Contains(data, []byte(`"msg":"unsupported platform, nothing to install"`)) {
		t.Errorf("log file missing warning, got:\n%s", data)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"success", []string{"version"}, 0},
		{"invalid input", []string{"cache", "key", "--vulkan-version", "1.3"}, 1},
		{"bad config file", []string{"cache", "key", "--config", "does-not-exist.yaml"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			withTag(t, platform.Linux)
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			if got := Run(context.Background()); got != tt.want {
				t.Errorf("Run(%v) = %d, want %d\n%s", tt.args, got, tt.want, out.String())
			}
		})
	}
}

func TestSetupLogging_IgnoresStaleSubcommandContext(t *testing.T) {
	isolate(t)

	stale, cancel := context.WithCancel(context.Background())
	cancel()
	versionCmd.SetContext(stale)

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	if err := versionCmd.Context().Err(); err != nil {
		t.Errorf("version ran with a cancelled context: %v", err)
	}
}
