// Package env publishes environment variables for the installed SDK.
//
// A Publisher applies a list of Changes to one or more Sinks. ProcessSink
// mutates the current process environment; GitHubSink appends to the files
// named by GITHUB_ENV and GITHUB_PATH so later workflow steps observe the
// same variables.
package env
