package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"document-qa-be/internal/bootstrap"
	"document-qa-be/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Ingest PDFs and ask questions about them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		ingestCmd(),
		askCmd(),
		listCmd(),
		deleteCmd(),
		watchCmd(),
	)

	return root
}

// withContainer runs fn against the same services the HTTP server uses.
func withContainer(ctx context.Context, fn func(c *bootstrap.Container) error) error {
	cfg := config.Load()
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.Start(ctx); err != nil {
		return err
	}
	return fn(container)
}
