// Package main provides a CLI for running Lua map scripts.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	mapscriptcmd "github.com/dyle/rpgmapper-sub001/internal/cmd/mapscript"
	platformcmd "github.com/dyle/rpgmapper-sub001/internal/platform/cmd"
	"github.com/dyle/rpgmapper-sub001/internal/platform/config"
)

func main() {
	cfg, err := mapscriptcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMapscript, func(ctx context.Context) error {
		return mapscriptcmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
