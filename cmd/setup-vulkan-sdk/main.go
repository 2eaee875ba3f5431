// Package main is the entry point for the setup-vulkan-sdk CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/setup-vulkan-sdk/cmd/setup-vulkan-sdk/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Run(ctx)
	stop()
	os.Exit(code)
}
