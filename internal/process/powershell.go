package process

import (
	"fmt"
	"strings"
	"time"
)

// PowerShell is the shell used to elevate Windows installers.
const PowerShell = "powershell.exe"

// QuotePS quotes s as a PowerShell single-quoted string.
func QuotePS(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// TimeoutExitCode is returned by the elevated script when it stops the
// installer after its timeout.
const TimeoutExitCode = 124

// ElevatedCommand returns the PowerShell arguments that start exe with
// argLine as administrator, wait for it to exit and propagate its exit code.
// Killing powershell.exe does not stop the elevated child, so a positive
// timeout is enforced inside the script: the installer is stopped and the
// script exits with TimeoutExitCode.
func ElevatedCommand(exe, argLine string, timeout time.Duration) []string {
	start := fmt.Sprintf("$p = Start-Process -FilePath %s -ArgumentList %s -Verb RunAs -PassThru", QuotePS(exe), QuotePS(argLine))
	wait := "$p.WaitForExit()"
	if timeout > 0 {
		wait = fmt.Sprintf(
			"if (-not $p.WaitForExit(%d)) { Stop-Process -Id $p.Id -Force -ErrorAction SilentlyContinue; exit %d }",
			timeout.Milliseconds(), TimeoutExitCode,
		)
	}
	script := strings.Join([]string{start, wait, "exit $p.ExitCode"}, "; ")
	return []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script}
}
