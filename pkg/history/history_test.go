package history

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestLocationAccessors(t *testing.T) {
	loc := ParseLocation("/users/42?tab=info&x=1#bio")
	if loc.Path() != "/users/42" {
		t.Errorf("Path() = %q", loc.Path())
	}
	if loc.Query() != "tab=info&x=1" {
		t.Errorf("Query() = %q", loc.Query())
	}
	if loc.Hash() != "bio" {
		t.Errorf("Hash() = %q", loc.Hash())
	}
	if loc.Values().Get("tab") != "info" {
		t.Errorf("Values()[tab] = %q", loc.Values().Get("tab"))
	}
	if loc.URL() != "/users/42?tab=info&x=1#bio" {
		t.Errorf("URL() = %q", loc.URL())
	}

	var zero Location
	if zero.Path() != "/" {
		t.Errorf("zero Path() = %q, want /", zero.Path())
	}
	if NewLocation("", "", "", "s").State() != "s" {
		t.Error("state not preserved")
	}
}

func TestListenNotCalledOnRegistration(t *testing.T) {
	h := NewMemoryHistory("/")
	calls := 0
	unlisten, err := h.Listen(func(Location) { calls++ })
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}
	defer unlisten()

	if calls != 0 {
		t.Errorf("listener called %d times during registration", calls)
	}
}

func TestListenerCompleteness(t *testing.T) {
	backends := map[string]History{
		"memory":  NewMemoryHistory("/"),
		"browser": NewBrowserHistory("/"),
		"hash":    NewHashHistory("/index.html#/"),
	}

	for name, h := range backends {
		t.Run(name, func(t *testing.T) {
			var got []string
			unlisten, err := h.Listen(func(loc Location) {
				got = append(got, loc.URL())
			})
			if err != nil {
				t.Fatalf("Listen() error: %v", err)
			}
			defer unlisten()

			var want []string
			for i := 0; i < 10; i++ {
				path := fmt.Sprintf("/items/%d", i)
				if i%3 == 0 {
					h.Replace(path, "r=1")
					want = append(want, path+"?r=1")
				} else {
					h.Push(path, "")
					want = append(want, path)
				}
				if h.Location().Path() != path {
					t.Fatalf("Location() = %q right after navigating to %q", h.Location().Path(), path)
				}
			}

			if len(got) != len(want) {
				t.Fatalf("got %d callbacks, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("callback %d = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestUnlistenFinality(t *testing.T) {
	h := NewMemoryHistory("/")
	calls := 0
	unlisten, err := h.Listen(func(Location) { calls++ })
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}

	h.Push("/a", "")
	unlisten()
	h.Push("/b", "")
	h.Replace("/c", "")
	h.Back()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Second call is a no-op.
	unlisten()
	if h.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", h.ListenerCount())
	}
}

func TestUnlistenInsideCallback(t *testing.T) {
	h := NewMemoryHistory("/")
	calls := 0
	var unlisten Unlisten
	unlisten, _ = h.Listen(func(Location) {
		calls++
		unlisten()
	})

	h.Push("/a", "")
	h.Push("/b", "")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestReentrantNavigationIsQueued(t *testing.T) {
	h := NewMemoryHistory("/")
	var order []string
	depth := 0

	_, _ = h.Listen(func(loc Location) {
		depth++
		defer func() { depth-- }()
		if depth > 1 {
			t.Errorf("listener reentered at %s", loc.Path())
		}
		order = append(order, loc.Path())
		if loc.Path() == "/login" {
			h.Replace("/home", "")
		}
	})

	h.Push("/login", "")

	want := []string{"/login", "/home"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if h.Location().Path() != "/home" {
		t.Errorf("Location() = %q, want /home", h.Location().Path())
	}
}

func TestListenerRegisteredLaterMissesEarlierCommits(t *testing.T) {
	h := NewMemoryHistory("/")
	var second []string

	_, _ = h.Listen(func(loc Location) {
		if loc.Path() == "/a" {
			_, _ = h.Listen(func(loc Location) {
				second = append(second, loc.Path())
			})
		}
	})

	h.Push("/a", "")
	h.Push("/b", "")

	if fmt.Sprint(second) != "[/b]" {
		t.Errorf("late listener saw %v, want [/b]", second)
	}
}

func TestGoTraversal(t *testing.T) {
	h := NewMemoryHistory("/")
	h.Push("/a", "")
	h.Push("/b", "")

	h.Back()
	if got := h.Location().Path(); got != "/a" {
		t.Errorf("after Back() = %q, want /a", got)
	}
	h.Forward()
	if got := h.Location().Path(); got != "/b" {
		t.Errorf("after Forward() = %q, want /b", got)
	}
	h.Go(-2)
	if got := h.Location().Path(); got != "/" {
		t.Errorf("after Go(-2) = %q, want /", got)
	}

	calls := 0
	_, _ = h.Listen(func(Location) { calls++ })
	h.Go(-1)
	h.Go(5)
	if calls != 0 {
		t.Errorf("out of range Go produced %d callbacks", calls)
	}

	// Pushing from the middle drops forward entries.
	h.Push("/c", "")
	if length, index := h.Len(); length != 2 || index != 1 {
		t.Errorf("Len() = (%d, %d), want (2, 1)", length, index)
	}
}

func TestEmbeddedQueryIsKept(t *testing.T) {
	backends := map[string]History{
		"memory":  NewMemoryHistory("/"),
		"browser": NewBrowserHistory("/"),
		"hash":    NewHashHistory("/"),
	}
	for name, h := range backends {
		t.Run(name, func(t *testing.T) {
			h.Push("/search?q=go#top", "n=3")
			loc := h.Location()
			if loc.Path() != "/search" || loc.Query() != "q=go&n=3" || loc.Hash() != "top" {
				t.Errorf("Push() location = (%q, %q, %q)", loc.Path(), loc.Query(), loc.Hash())
			}
			h.Replace("/find?q=rust", "")
			if got := h.Location().URL(); got != "/find?q=rust" {
				t.Errorf("Replace() location = %q, want /find?q=rust", got)
			}
		})
	}
}

func TestStatePayload(t *testing.T) {
	h := NewMemoryHistory("/")
	var seen any
	_, _ = h.Listen(func(loc Location) { seen = loc.State() })

	h.PushWithState("/a", "", map[string]int{"scroll": 10})
	if m, ok := seen.(map[string]int); !ok || m["scroll"] != 10 {
		t.Errorf("state = %#v", seen)
	}
	h.ReplaceWithState("/a", "", "replaced")
	if h.Location().State() != "replaced" {
		t.Errorf("Location().State() = %#v", h.Location().State())
	}
}

func TestCloseRejectsListen(t *testing.T) {
	h := NewMemoryHistory("/")
	calls := 0
	_, _ = h.Listen(func(Location) { calls++ })

	h.Close()
	h.Push("/a", "")

	if calls != 0 {
		t.Errorf("calls after Close = %d", calls)
	}
	if _, err := h.Listen(func(Location) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Listen() after Close error = %v, want ErrClosed", err)
	}
}

func TestListenerPanicDoesNotWedgeDelivery(t *testing.T) {
	h := NewMemoryHistory("/")
	var got []string
	_, _ = h.Listen(func(loc Location) {
		if loc.Path() == "/boom" {
			panic("boom")
		}
		got = append(got, loc.Path())
	})

	func() {
		defer func() { _ = recover() }()
		h.Push("/boom", "")
	}()
	h.Push("/ok", "")

	if fmt.Sprint(got) != "[/ok]" {
		t.Errorf("got %v, want [/ok]", got)
	}
}

func TestConcurrentNavigationDeliversEveryCommit(t *testing.T) {
	h := NewMemoryHistory("/")
	var mu sync.Mutex
	calls := 0
	_, _ = h.Listen(func(Location) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.Push(fmt.Sprintf("/%d/%d", i, j), "")
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 200 {
		t.Errorf("calls = %d, want 200", calls)
	}
}
