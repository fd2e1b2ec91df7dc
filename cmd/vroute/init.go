package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		asJSON bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter configuration",
		Long: `Create vroute.yaml (or vroute.json with --json) with a small
example route table.

Examples:
  vroute init
  vroute init ./web --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			name := config.FileYAML
			if asJSON {
				name = config.FileJSON
			}
			path := filepath.Join(dir, name)

			if !force && config.Exists(dir) {
				return errors.New("V081").
					WithDetail("A vroute configuration already exists in " + dir + ".").
					WithSuggestion("Pass --force to overwrite it")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			cfg := starterConfig()
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write vroute.json instead of vroute.yaml")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration")
	return cmd
}

func starterConfig() *config.Config {
	cfg := config.New()
	cfg.Routes = []config.Route{
		{Name: "user", Pattern: "/users/:id"},
		{Name: "user-rest", Pattern: "/users/*rest"},
		{Name: "home", Pattern: "/"},
		{Name: "not-found", Pattern: "/404"},
	}
	cfg.NotFound = "not-found"
	return cfg
}
