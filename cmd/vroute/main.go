package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "vroute",
		Short: "Inspect and serve client-side route tables",
		Long: `vroute works with the route table declared in vroute.json or
vroute.yaml: list it, resolve paths against it, or serve a page whose
address bar is driven by a server-side router.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: nearest vroute.json/.yaml)")

	load := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFile(configPath)
		}
		return config.LoadFromWorkingDir()
	}

	rootCmd.AddCommand(
		initCmd(),
		routesCmd(load),
		matchCmd(load),
		serveCmd(load),
		versionCmd(),
	)
	return rootCmd
}

type configLoader func() (*config.Config, error)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
