package env

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// GitHubSink appends changes to the GitHub Actions environment files.
//
// Set changes and Prepend changes to variables other than PATH are written as
// KEY=VALUE lines to EnvFile. PATH prepends are written to PathFile. Lines
// already present are not written again.
type GitHubSink struct {
	EnvFile  string
	PathFile string
	// Getenv resolves the previous value of a path list. Defaults to os.Getenv.
	Getenv func(string) string
}

// GitHubSinkFromEnv returns a sink for the files named by GITHUB_ENV and
// GITHUB_PATH, and false when neither is set.
func GitHubSinkFromEnv() (*GitHubSink, bool) {
	s := &GitHubSink{
		EnvFile:  os.Getenv(VarGitHubEnv),
		PathFile: os.Getenv(VarGitHubPath),
	}
	return s, s.EnvFile != "" || s.PathFile != ""
}

// Apply implements Sink.
func (s *GitHubSink) Apply(_ context.Context, c Change) error {
	if c.Mode == Prepend && c.Key == VarPath {
		if s.PathFile == "" {
			return nil
		}
		return appendLine(s.PathFile, c.Value)
	}

	if s.EnvFile == "" {
		return nil
	}
	value := c.Value
	if c.Mode == Prepend {
		getenv := s.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		value = PrependList(c.Value, getenv(c.Key))
	}
	return appendLine(s.EnvFile, c.Key+"="+value)
}

func appendLine(path, line string) error {
	present, err := containsLine(path, line)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

func containsLine(path, line string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if strings.TrimRight(sc.Text(), "\r") == line {
			return true, nil
		}
	}
	return false, errors.Wrapf(sc.Err(), "reading %s", path)
}
