package router_test

import (
	"errors"
	"fmt"

	"github.com/vango-dev/routetable/pkg/router"
)

func ExampleCompile() {
	table, err := router.Compile([]string{"/posts", "/posts/$id", "/files/$"})
	if err != nil {
		panic(err)
	}

	m, _ := table.Match("/posts/42")
	id, _ := m.Params.Get("id")
	fmt.Println(m.ID(), id)

	m, _ = table.Match("/files/docs/readme.md")
	splat, _ := m.Params.Splat()
	fmt.Println(m.ID(), splat)

	_, ok := table.Match("/users")
	fmt.Println(ok)
	// Output:
	// /posts/$id 42
	// /files/$ docs/readme.md
	// false
}

func ExampleCompile_errors() {
	_, err := router.Compile([]string{"/a/profile", "/a/profile", "/files/$/edit"})

	var dup *router.DuplicatePatternError
	fmt.Println(errors.As(err, &dup))
	fmt.Println(err)
	// Output:
	// true
	// 2 route build errors:
	//   1. duplicate pattern "/a/profile"
	//   2. pattern "/files/$/edit": wildcard must be the last segment at offset 7
}

func ExampleTable_Interpolate() {
	table, err := router.Compile([]string{"/docs/{-$lang}", "/posts/$id"})
	if err != nil {
		panic(err)
	}

	path, _ := table.Interpolate("/posts/$id", router.Params{"id": router.Str("hello world")})
	fmt.Println(path)

	path, _ = table.Interpolate("/docs/{-$lang}", router.Params{"lang": router.Absent()})
	fmt.Println(path)
	// Output:
	// /posts/hello%20world
	// /docs
}
