package router

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/route"
)

type page interface{ isPage() }

type homePage struct{}
type userPage struct {
	ID string `param:"id"`
}
type userRestPage struct {
	Rest string `param:"rest"`
}
type missingPage struct{}

func (homePage) isPage()     {}
func (userPage) isPage()     {}
func (userRestPage) isPage() {}
func (missingPage) isPage()  {}

func pages(withNotFound bool) *route.Table[page] {
	cases := []route.Case[page]{
		route.Struct[page, userPage]("/users/:id"),
		route.Struct[page, userRestPage]("/users/*rest"),
		route.Struct[page, homePage]("/"),
	}
	if withNotFound {
		cases = append(cases, route.NotFoundCase(route.Struct[page, missingPage]("/404")))
	}
	return route.MustDefine(cases...)
}

func describe(p page) string {
	switch p := p.(type) {
	case userPage:
		return "user:" + p.ID
	case userRestPage:
		return "rest:" + p.Rest
	case homePage:
		return "home"
	case missingPage:
		return "missing"
	default:
		return "?"
	}
}

func capturingLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestSwitchDispatch(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/users/42", "user:42"},
		{"/users/42/edit", "rest:42/edit"},
		{"/", "home"},
		{"/app/users/42", "user:42"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			h := history.NewMemoryHistory(tt.url)
			var opts []Option
			if strings.HasPrefix(tt.url, "/app") {
				opts = append(opts, WithBasename("/app"))
			}
			r := mountedRouter(t, h, opts...)
			if got := Switch(r, pages(false), describe); got != tt.want {
				t.Errorf("Switch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSwitchEmptySegmentFallsToCatchAll(t *testing.T) {
	r := mountedRouter(t, history.NewMemoryHistory("/users/"))
	if got := Switch(r, pages(false), describe); got != "rest:" {
		t.Errorf("Switch(/users/) = %q, want rest:", got)
	}
}

func TestSwitchUnmatched(t *testing.T) {
	t.Run("not-found route", func(t *testing.T) {
		var logs bytes.Buffer
		r := mountedRouter(t, history.NewMemoryHistory("/nope"), WithLogger(capturingLogger(&logs)))

		if got := Switch(r, pages(true), describe); got != "missing" {
			t.Errorf("Switch() = %q, want missing", got)
		}
		if n := strings.Count(logs.String(), "no route matched"); n != 1 {
			t.Errorf("logged %d warnings, want 1: %q", n, logs.String())
		}
		if r.Location().Path() != "/nope" {
			t.Errorf("unmatched location was rewritten to %q", r.Location().Path())
		}
	})

	t.Run("zero output", func(t *testing.T) {
		var logs bytes.Buffer
		r := mountedRouter(t, history.NewMemoryHistory("/nope"), WithLogger(capturingLogger(&logs)))

		if got := Switch(r, pages(false), describe); got != "" {
			t.Errorf("Switch() = %q, want empty", got)
		}
		if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "path=/nope") {
			t.Errorf("unexpected log output %q", logs.String())
		}
	})
}

func TestSwitchPathnameOverride(t *testing.T) {
	var logs bytes.Buffer
	r := mountedRouter(t, history.NewMemoryHistory("/users/1"), WithLogger(capturingLogger(&logs)))

	if got := Switch(r, pages(false), describe, WithPathname("/users/9")); got != "user:9" {
		t.Errorf("Switch(override) = %q, want user:9", got)
	}
	if got := Switch(r, pages(false), describe, WithPathname("/zzz")); got != "" {
		t.Errorf("Switch(unmatched override) = %q, want empty", got)
	}
	if !strings.Contains(logs.String(), "path=/zzz") {
		t.Errorf("expected warning for override, got %q", logs.String())
	}
}

func TestSwitchAnyRoute(t *testing.T) {
	r := mountedRouter(t, history.NewMemoryHistory("/docs/a/b"), WithBasename("/docs"))
	got := Switch[route.AnyRoute](r, route.Any, func(a route.AnyRoute) string { return a.Path() })
	if got != "/a/b" {
		t.Errorf("Switch(Any) = %q, want /a/b", got)
	}
}

func TestCurrentRoute(t *testing.T) {
	r := mountedRouter(t, history.NewMemoryHistory("/users/5"))
	p, ok := CurrentRoute[page](r, pages(false))
	if !ok || p != (userPage{ID: "5"}) {
		t.Errorf("CurrentRoute() = %#v, %v", p, ok)
	}

	r.Navigator().Push("/elsewhere/x")
	if _, ok := CurrentRoute[page](r, pages(false)); ok {
		t.Error("CurrentRoute() matched an unknown path")
	}
}

func TestSwitchView(t *testing.T) {
	h := history.NewMemoryHistory("/")
	r := mountedRouter(t, h)

	var rendered []string
	view := NewSwitchView(r, pages(true), describe, func(out string) {
		rendered = append(rendered, out)
	})

	r.Navigator().Push("/users/3")
	r.Navigator().Push("/users/3/posts")
	h.Back()

	want := []string{"home", "user:3", "rest:3/posts", "user:3"}
	if strings.Join(rendered, ",") != strings.Join(want, ",") {
		t.Errorf("rendered = %v, want %v", rendered, want)
	}
	if out, rev := view.Current(); out != "user:3" || rev != 3 {
		t.Errorf("Current() = %q, %d", out, rev)
	}

	view.Close()
	view.Close()
	r.Navigator().Push("/")
	if len(rendered) != len(want) {
		t.Errorf("view rendered after Close: %v", rendered)
	}
	if r.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after Close", r.Subscribers())
	}
}
