// netswitch - switch between Wi-Fi, wired, both, hotspot and offline
// network modes through NetworkManager, from a tray icon or the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"netswitch/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "netswitch: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
