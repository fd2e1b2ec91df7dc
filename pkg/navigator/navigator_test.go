package navigator

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/route"
)

func TestPrefixAndStrip(t *testing.T) {
	h := history.NewMemoryHistory("/")
	tests := []struct {
		basename   string
		path       string
		wantPrefix string
	}{
		{"", "/users", "/users"},
		{"/", "/users", "/users"},
		{"/app", "/users", "/app/users"},
		{"/app/", "/users", "/app/users"},
		{"app", "/", "/app/"},
		{"/a/b", "users", "/a/b/users"},
	}

	for _, tt := range tests {
		n := New(h, tt.basename)
		if got := n.PrefixBasename(tt.path); got != tt.wantPrefix {
			t.Errorf("New(%q).PrefixBasename(%q) = %q, want %q", tt.basename, tt.path, got, tt.wantPrefix)
		}
	}
}

func TestStripBasename(t *testing.T) {
	n := New(history.NewMemoryHistory("/"), "/app")
	tests := map[string]string{
		"/app":         "/",
		"/app/":        "/",
		"/app/users/1": "/users/1",
		"/apple":       "/apple",
		"/other":       "/other",
		"/":            "/",
	}
	for in, want := range tests {
		if got := n.StripBasename(in); got != want {
			t.Errorf("StripBasename(%q) = %q, want %q", in, got, want)
		}
	}

	root := New(history.NewMemoryHistory("/"), "")
	if got := root.StripBasename("/app/x"); got != "/app/x" {
		t.Errorf("root StripBasename = %q", got)
	}
}

func TestBasenameIdempotence(t *testing.T) {
	h := history.NewMemoryHistory("/")
	properties := gopter.NewProperties(nil)

	segments := gen.SliceOf(gen.Identifier())

	properties.Property("strip(prefix(p)) == p", prop.ForAll(
		func(base, path []string) bool {
			n := New(h, "/"+strings.Join(base, "/"))
			p := "/" + strings.Join(path, "/")
			return n.StripBasename(n.PrefixBasename(p)) == p
		},
		segments,
		segments,
	))

	properties.Property("trailing slash in basename is irrelevant", prop.ForAll(
		func(base []string) bool {
			b := "/" + strings.Join(base, "/")
			return New(h, b).Basename() == New(h, b+"/").Basename()
		},
		segments,
	))

	properties.TestingRun(t)
}

func TestPushAndReplace(t *testing.T) {
	h := history.NewMemoryHistory("/app")
	n := New(h, "/app")

	var seen []string
	_, _ = h.Listen(func(loc history.Location) { seen = append(seen, loc.URL()) })

	n.Push("/users", WithQuery(url.Values{"page": {"2"}}))
	n.Replace("/users/42", WithParams(map[string]any{"tab": "info", "n": 3}))
	n.Navigate("/settings")
	n.Navigate("/profile", WithReplace(), WithState("s"))

	want := []string{
		"/app/users?page=2",
		"/app/users/42?n=3&tab=info",
		"/app/settings",
		"/app/profile",
	}
	if strings.Join(seen, " ") != strings.Join(want, " ") {
		t.Errorf("navigations = %v, want %v", seen, want)
	}
	if h.Location().State() != "s" {
		t.Errorf("state = %#v", h.Location().State())
	}
	if length, _ := h.Len(); length != 3 {
		t.Errorf("history length = %d, want 3", length)
	}

	n.Back()
	if h.Location().Path() != "/app/users/42" {
		t.Errorf("after Back() = %q", h.Location().Path())
	}
	n.Forward()
	n.Go(-2)
	if h.Location().Path() != "/app" {
		t.Errorf("after Go(-2) = %q", h.Location().Path())
	}
}

func TestHref(t *testing.T) {
	n := New(history.NewMemoryHistory("/"), "/docs")
	if got := n.Href("/guide", WithParams(map[string]any{"v": 2})); got != "/docs/guide?v=2" {
		t.Errorf("Href() = %q", got)
	}
}

func TestPathQueryMatchesHref(t *testing.T) {
	h := history.NewMemoryHistory("/")
	n := New(h, "/app")

	tests := []struct {
		path string
		opts []Option
		want string
	}{
		{"/search?q=go", nil, "/app/search?q=go"},
		{"/search?q=go", []Option{WithParams(map[string]any{"n": 3})}, "/app/search?q=go&n=3"},
		{"/docs#intro", nil, "/app/docs#intro"},
		{"?page=2", nil, "/app/?page=2"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := n.Href(tt.path, tt.opts...); got != tt.want {
				t.Errorf("Href(%q) = %q, want %q", tt.path, got, tt.want)
			}
			n.Push(tt.path, tt.opts...)
			if got := h.Location().URL(); got != tt.want {
				t.Errorf("Push(%q) location = %q, want %q", tt.path, got, tt.want)
			}
			n.Replace(tt.path, tt.opts...)
			if got := h.Location().URL(); got != tt.want {
				t.Errorf("Replace(%q) location = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	h := history.NewMemoryHistory("/")
	a := New(h, "/app")
	if !a.Equal(New(h, "/app/")) {
		t.Error("same history and basename should be equal")
	}
	if a.Equal(New(h, "/other")) {
		t.Error("different basename should not be equal")
	}
	if a.Equal(New(history.NewMemoryHistory("/"), "/app")) {
		t.Error("different history should not be equal")
	}
	var nilNav *Navigator
	if a.Equal(nilNav) || !nilNav.Equal(nil) {
		t.Error("nil comparison mismatch")
	}
}

type page interface{ isPage() }

type homePage struct{}
type userPage struct {
	ID int `param:"id"`
}
type orphanPage struct{}

func (homePage) isPage()   {}
func (userPage) isPage()   {}
func (orphanPage) isPage() {}

func TestTypedRoutes(t *testing.T) {
	codec := route.MustDefine(
		route.Struct[page, homePage]("/"),
		route.Struct[page, userPage]("/users/:id:int"),
	)
	h := history.NewMemoryHistory("/base")
	n := New(h, "/base")

	if err := PushRoute[page](n, codec, userPage{ID: 5}); err != nil {
		t.Fatalf("PushRoute() error: %v", err)
	}
	if h.Location().Path() != "/base/users/5" {
		t.Errorf("Location() = %q", h.Location().Path())
	}

	if err := ReplaceRoute[page](n, codec, homePage{}, WithParams(map[string]any{"x": 1})); err != nil {
		t.Fatalf("ReplaceRoute() error: %v", err)
	}
	if h.Location().URL() != "/base/?x=1" {
		t.Errorf("Location() = %q", h.Location().URL())
	}

	href, err := RouteHref[page](n, codec, userPage{ID: 9})
	if err != nil || href != "/base/users/9" {
		t.Errorf("RouteHref() = %q, %v", href, err)
	}

	if err := PushRoute[page](n, codec, orphanPage{}); !errors.Is(err, ErrUnroutable) {
		t.Errorf("PushRoute(orphan) error = %v, want ErrUnroutable", err)
	}
	if _, err := RouteHref[page](n, codec, orphanPage{}); !errors.Is(err, ErrUnroutable) {
		t.Errorf("RouteHref(orphan) error = %v, want ErrUnroutable", err)
	}
}
