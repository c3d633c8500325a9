// Command scanctl drives the scan dashboard API from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vedsatt/scan-dashboard/internal/client"
)

const defaultServer = "http://localhost:8080"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the API client into every subcommand.
type app struct {
	server string
	api    *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "scanctl",
		Short:         "Inspect and drive the code scan dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.api = client.New(a.server)
		},
	}

	server := os.Getenv("SCANCTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().StringVar(&a.server, "server", server, "Dashboard base URL (env SCANCTL_SERVER)")

	rootCmd.AddCommand(
		a.projectsCmd(),
		a.issuesCmd(),
		a.fixesCmd(),
		a.historyCmd(),
		a.statsCmd(),
		a.scanCmd(),
		a.fixCmd(),
		a.mergeCmd(),
		a.diffCmd(),
		a.rescanCmd(),
		a.deployCmd(),
	)

	return rootCmd
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseID(name, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return id, nil
}
