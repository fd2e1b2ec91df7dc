package route

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr error
	}{
		{"users", ErrInvalidPattern},
		{"/users//:id", ErrInvalidPattern},
		{"/users/:", ErrInvalidPattern},
		{"/files/*", ErrInvalidPattern},
		{"/a/:id/b/:id", ErrDuplicateParam},
		{"/a/:id/*id", ErrDuplicateParam},
		{"/files/*path/edit", ErrCatchAllNotLast},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if _, err := Compile(tt.pattern); !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.pattern, err, tt.wantErr)
			}
		})
	}
}

func TestPatternNames(t *testing.T) {
	p := MustCompile("/orgs/:org/repos/:repo:int/*rest")
	if got := p.Names(); !reflect.DeepEqual(got, []string{"org", "repo", "rest"}) {
		t.Errorf("Names() = %v", got)
	}
	if !p.HasParams() {
		t.Error("HasParams() = false")
	}
	if MustCompile("/").HasParams() {
		t.Error("root pattern should have no params")
	}
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    Params
		match   bool
	}{
		{"/", "/", Params{}, true},
		{"/", "", Params{}, true},
		{"/", "/x", nil, false},
		{"/about", "/about", Params{}, true},
		{"/about", "/about/", Params{}, true},
		{"/about", "/About", nil, false},
		{"/about", "/about/team", nil, false},
		{"/users/:id", "/users/42", Params{"id": "42"}, true},
		{"/users/:id", "/users/", nil, false},
		{"/users/:id", "/users", nil, false},
		{"/users/:id", "/users//", nil, false},
		{"/users/:id", "/users/a%20b", Params{"id": "a b"}, true},
		{"/users/:id", "/users/a%2Fb", Params{"id": "a/b"}, true},
		{"/users/:id", "/users/%zz", nil, false},
		{"/users/:id:int", "/users/42", Params{"id": "42"}, true},
		{"/users/:id:int", "/users/abc", nil, false},
		{"/users/:id:uuid", "/users/123e4567-e89b-12d3-a456-426614174000", Params{"id": "123e4567-e89b-12d3-a456-426614174000"}, true},
		{"/users/:id:uuid", "/users/123", nil, false},
		{"/files/*path", "/files", Params{"path": ""}, true},
		{"/files/*path", "/files/", Params{"path": ""}, true},
		{"/files/*path", "/files/a", Params{"path": "a"}, true},
		{"/files/*path", "/files/a/b/c", Params{"path": "a/b/c"}, true},
		{"/files/*path", "/files/a//b/", Params{"path": "a//b/"}, true},
		{"/files/*path", "/files/a%2Fb", Params{"path": "a%2Fb"}, true},
		{"/*path", "/", Params{"path": ""}, true},
		{"/*path", "/anything/at/all", Params{"path": "anything/at/all"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			got, ok := MustCompile(tt.pattern).Match(tt.path)
			if ok != tt.match {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.path, ok, tt.match)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPatternBuild(t *testing.T) {
	tests := []struct {
		pattern string
		params  Params
		want    string
		wantErr bool
	}{
		{"/", nil, "/", false},
		{"/about", nil, "/about", false},
		{"/users/:id", Params{"id": "42"}, "/users/42", false},
		{"/users/:id", Params{"id": "a b/c"}, "/users/a%20b%2Fc", false},
		{"/users/:id", Params{}, "", true},
		{"/users/:id", Params{"id": ""}, "", true},
		{"/users/:id:int", Params{"id": "x"}, "", true},
		{"/files/*path", Params{"path": ""}, "/files/", false},
		{"/files/*path", Params{"path": "a/b"}, "/files/a/b", false},
		{"/files/*path", Params{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := MustCompile(tt.pattern).Build(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build(%v) error = %v, wantErr %v", tt.params, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Build(%v) = %q, want %q", tt.params, got, tt.want)
			}
		})
	}
}

func TestMissingParamError(t *testing.T) {
	_, err := MustCompile("/users/:id").Build(Params{})
	if !errors.Is(err, ErrMissingParam) {
		t.Errorf("error = %v, want ErrMissingParam", err)
	}
}
