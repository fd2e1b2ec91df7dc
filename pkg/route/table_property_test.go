package route

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type articleRoute struct {
	Author string `param:"author"`
	ID     int    `param:"id"`
}

func (articleRoute) isAppRoute() {}

// propertyTable declares patterns that do not shadow one another, so every
// route serializes to a path that recognizes back to the same case.
func propertyTable() *Table[appRoute] {
	return MustDefine(
		Struct[appRoute, homeRoute]("/"),
		Struct[appRoute, userRoute]("/users/:id"),
		Struct[appRoute, articleRoute]("/users/:author/articles/:id:int"),
		Struct[appRoute, filesRoute]("/files/*path"),
		NotFoundCase(Struct[appRoute, notFoundRoute]("/404")),
	)
}

func TestRoundTripProperties(t *testing.T) {
	table := propertyTable()
	properties := gopter.NewProperties(nil)

	roundTrip := func(pattern string, params Params) bool {
		built, ok := table.FromPath(pattern, params)
		if !ok {
			return false
		}
		recognized, ok := table.Recognize(table.ToPath(built))
		return ok && reflect.DeepEqual(recognized, built)
	}

	properties.Property("single param round trips", prop.ForAll(
		func(id string) bool {
			if id == "" {
				return true
			}
			return roundTrip("/users/:id", Params{"id": id})
		},
		gen.AnyString(),
	))

	properties.Property("typed params round trip", prop.ForAll(
		func(author string, id int) bool {
			if author == "" {
				return true
			}
			return roundTrip("/users/:author/articles/:id:int", Params{
				"author": author,
				"id":     strconv.Itoa(id),
			})
		},
		gen.AnyString(),
		gen.IntRange(-1_000_000, 1_000_000),
	))

	properties.Property("catch-all round trips", prop.ForAll(
		func(parts []string) bool {
			return roundTrip("/files/*path", Params{"path": strings.Join(parts, "/")})
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("catch-all keeps slashes verbatim", prop.ForAll(
		func(parts []string) bool {
			rest := strings.Join(parts, "/")
			r, ok := table.Recognize("/files/" + rest)
			if !ok {
				return false
			}
			return strings.Join(r.(filesRoute).Path, "/") == rest
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("static routes round trip", prop.ForAll(
		func(pattern string) bool {
			return roundTrip(pattern, Params{})
		},
		gen.OneConstOf("/", "/404"),
	))

	properties.TestingRun(t)
}
