package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func routesCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			table, err := cfg.Table()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tPATTERN\tPARAMS\t")
			for i, r := range cfg.Routes {
				p, _ := table.Pattern(r.Pattern)
				params := strings.Join(p.Names(), ",")
				mark := ""
				if r.Name == cfg.NotFound {
					mark = "(not found)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Name, r.Pattern, params, mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if cfg.Basename != "" {
				info(cmd.OutOrStdout(), "mounted under %s", cfg.Basename)
			}
			return nil
		},
	}
}
