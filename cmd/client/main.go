package main

import (
	"CaseKeeper/internal/cli/commands"
	"CaseKeeper/internal/config"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion(cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(commands.Dispatch(ctx, cfg, flag.Args()))
}

// printVersion показывает версию и то, с каким хранилищем будет работать клиент.
func printVersion(cfg *config.Config) {
	fmt.Printf("CaseKeeper CLI %s (built %s)\n", version, buildDate)
	if cfg.Remote {
		fmt.Printf("Records: server %s\n", cfg.ServerURL)
		return
	}
	fmt.Printf("Records: local %s store in %s\n", cfg.ClientStore, cfg.ClientDBPath)
}
