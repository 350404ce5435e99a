// Package main is the entry point for the brandsheet workbook generator.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/locvowork/brandsheet/cmd/brandsheet/commands"
	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/internal/config"
	"github.com/locvowork/brandsheet/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := config.LoadEnvConfig(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return apperr.ExitUsage
	}
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)

	cli := commands.New()
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return apperr.ExitCode(err)
	}
	return apperr.ExitOK
}
