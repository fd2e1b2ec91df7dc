package main

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	verrors "github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/bridge"
	"github.com/vango-dev/vroute/pkg/route"
	"github.com/vango-dev/vroute/pkg/router"
)

func serveCmd(load configLoader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a page whose address bar follows a server-side router",
		Long: `Serve a single page under the basename. Each open tab connects back
over a WebSocket and gets its own history and router; the route each
tab is on is listed at /_vroute/sessions. Prometheus metrics are
exposed at /metrics.

Examples:
  vroute serve
  vroute serve --addr=0.0.0.0:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			app, err := newServeApp(cfg, logger, reg)
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.run(ctx, cfg.Server.Address)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	return cmd
}

// sessionRoute is the route a connected tab is on.
type sessionRoute struct {
	ID       uint64       `json:"id"`
	Mode     bridge.Mode  `json:"mode"`
	URL      string       `json:"url"`
	Route    string       `json:"route,omitempty"`
	Params   route.Params `json:"params,omitempty"`
	Revision uint64       `json:"revision"`
}

type serveApp struct {
	cfg      *config.Config
	table    *route.Table[route.Named]
	logger   *slog.Logger
	metrics  *router.Metrics
	gatherer prometheus.Gatherer
	bridge   *bridge.Server

	mu       sync.RWMutex
	sessions map[uint64]sessionRoute
}

func newServeApp(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*serveApp, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	app := &serveApp{
		cfg:      cfg,
		table:    table,
		logger:   logger,
		metrics:  router.NewMetrics(router.WithRegistry(reg)),
		gatherer: reg,
		sessions: make(map[uint64]sessionRoute),
	}
	app.bridge = bridge.NewServer(
		bridge.WithMode(app.mode()),
		bridge.WithLogger(logger),
		bridge.WithOnSession(app.startSession),
	)
	return app, nil
}

func (a *serveApp) mode() bridge.Mode {
	if a.cfg.History == config.HistoryHash {
		return bridge.ModeHash
	}
	return bridge.ModeBrowser
}

// startSession mounts a router on the tab's history and tracks its route.
func (a *serveApp) startSession(s *bridge.Session) (func(), error) {
	r := router.New(s.History(),
		router.WithBasename(a.cfg.Basename),
		router.WithLogger(a.logger.With("session", s.ID())),
		router.WithMetrics(a.metrics),
	)
	if err := r.Mount(); err != nil {
		return nil, err
	}

	view := router.NewSwitchView(r, a.table,
		func(n route.Named) sessionRoute {
			return sessionRoute{Route: n.Name, Params: n.Params}
		},
		func(out sessionRoute) {
			out.ID = s.ID()
			out.Mode = s.Mode()
			out.URL = s.History().Location().URL()
			out.Revision = r.Revision()
			a.mu.Lock()
			a.sessions[s.ID()] = out
			a.mu.Unlock()
			a.logger.Info("route rendered", "session", out.ID, "url", out.URL, "route", out.Route)
		},
	)

	return func() {
		view.Close()
		r.Unmount()
		a.mu.Lock()
		delete(a.sessions, s.ID())
		a.mu.Unlock()
	}, nil
}

func (a *serveApp) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle(bridge.DefaultEndpoint, a.bridge)
	r.Get("/_vroute/sessions", a.listSessions)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	base := a.cfg.Basename
	if base == "" {
		r.Get("/*", a.shell)
		return r
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusFound)
	})
	r.Get(base, a.shell)
	r.Get(base+"/*", a.shell)
	return r
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vroute</title>
</head>
<body>
<p>Routes are resolved on the server. Use the address bar or history.pushState; see <a href="/_vroute/sessions">/_vroute/sessions</a>.</p>
{{.Script}}
</body>
</html>
`))

func (a *serveApp) shell(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Script template.HTML }{
		Script: template.HTML(bridge.ClientScript(bridge.DefaultEndpoint, a.mode())),
	}
	if err := shellTemplate.Execute(w, data); err != nil {
		a.logger.Warn("shell render failed", "error", err)
	}
}

func (a *serveApp) listSessions(w http.ResponseWriter, req *http.Request) {
	a.mu.RLock()
	list := make([]sessionRoute, 0, len(a.sessions))
	for _, s := range a.sessions {
		list = append(list, s)
	}
	a.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		a.logger.Warn("sessions encode failed", "error", err)
	}
}

func (a *serveApp) run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "address", addr, "basename", a.cfg.Basename, "history", a.mode())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return verrors.New("V080").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.bridge.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return verrors.New("V080").Wrap(err)
	}
	return nil
}

func (a *serveApp) close() {
	a.bridge.Close()
}
