package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/route"
	"github.com/vango-dev/vroute/pkg/router"
)

type matchResult struct {
	name   string
	params route.Params
	ok     bool
}

func matchCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <url>...",
		Short: "Resolve URLs against the route table",
		Long: `Resolve each URL the way a mounted router would: the basename is
applied, then the first matching route wins. URLs outside the
basename are moved under it first.

Examples:
  vroute match /app/users/42
  vroute match '/app/files/a/b?download=1' /app/nope`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			table, err := cfg.Table()
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unmatched := 0
			for _, url := range args {
				h := history.NewMemoryHistory(url)
				r := router.New(h, router.WithBasename(cfg.Basename), router.WithLogger(logger))
				if err := r.Mount(); err != nil {
					return errors.New("V040").Wrap(err)
				}

				res := router.Switch(r, table, func(n route.Named) matchResult {
					return matchResult{name: n.Name, params: n.Params, ok: true}
				})
				r.Unmount()

				switch {
				case !res.ok:
					unmatched++
					fmt.Fprintf(out, "%s\t(no match)\n", url)
				case res.name == cfg.NotFound:
					unmatched++
					fmt.Fprintf(out, "%s\t%s (not found)\n", url, res.name)
				default:
					fmt.Fprintf(out, "%s\t%s%s\n", url, res.name, formatParams(res.params))
				}
			}

			if unmatched > 0 {
				return errors.New("V004").
					WithDetail(fmt.Sprintf("%d of %d URLs matched no route.", unmatched, len(args)))
			}
			return nil
		},
	}
	return cmd
}

func formatParams(params route.Params) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, k := range params.Keys() {
		parts = append(parts, k+"="+params.Get(k))
	}
	return " " + strings.Join(parts, " ")
}
