package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teranos/changeset/cmd/changeset/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := commands.DefaultEnv()
	if err := commands.NewRootCmd(env).ExecuteContext(ctx); err != nil {
		commands.PrintError(env.Stderr, err)
		stop()
		os.Exit(1)
	}
}
