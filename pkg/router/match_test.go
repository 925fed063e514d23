package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t testing.TB, raw []string, opts ...Option) *Table {
	t.Helper()
	table, err := Compile(raw, opts...)
	require.NoError(t, err)
	return table
}

func TestMatch(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{
		"/",
		"/a/b",
		"/a/$id",
		"/a/$",
		"/posts/{-$slug}",
		"/logs/{$}.log",
		"/img/thumb-{$}",
		"/café",
		"/$lang/docs",
		"/docs/$page",
		"/(app)/settings/$section",
		"/_auth/account",
	})

	tests := []struct {
		name   string
		path   string
		id     string
		params map[string]string
	}{
		{"root", "/", "/", map[string]string{}},
		{"empty path is root", "", "/", map[string]string{}},
		{"literal wins", "/a/b", "/a/b", map[string]string{}},
		{"param over wildcard", "/a/x", "/a/$id", map[string]string{"id": "x"}},
		{"wildcard takes the rest", "/a/x/y", "/a/$", map[string]string{SplatParam: "x/y"}},
		{"wildcard takes nothing", "/a", "/a/$", map[string]string{SplatParam: ""}},
		{"trailing slash", "/a/b/", "/a/b", map[string]string{}},
		{"duplicate slashes", "//a//x", "/a/$id", map[string]string{"id": "x"}},
		{"optional absent", "/posts", "/posts/{-$slug}", map[string]string{}},
		{"optional present", "/posts/hello", "/posts/{-$slug}", map[string]string{"slug": "hello"}},
		{"suffix framing", "/logs/error.log", "/logs/{$}.log", map[string]string{SplatParam: "error"}},
		{"prefix framing", "/img/thumb-cat.png", "/img/thumb-{$}", map[string]string{SplatParam: "cat.png"}},
		{"decoded param", "/a/hello%20world", "/a/$id", map[string]string{"id": "hello world"}},
		{"encoded slash stays in segment", "/a/x%2Fy", "/a/$id", map[string]string{"id": "x/y"}},
		{"decoded literal", "/a/%62", "/a/b", map[string]string{}},
		{"non-ascii literal", "/café", "/café", map[string]string{}},
		{"encoded non-ascii literal", "/caf%C3%A9", "/café", map[string]string{}},
		{"static bucket", "/docs/intro", "/docs/$page", map[string]string{"page": "intro"}},
		{"static bucket beats dynamic", "/docs/docs", "/docs/$page", map[string]string{"page": "docs"}},
		{"dynamic first segment", "/en/docs", "/$lang/docs", map[string]string{"lang": "en"}},
		{"group is invisible", "/settings/profile", "/(app)/settings/$section", map[string]string{"section": "profile"}},
		{"pathless is invisible", "/account", "/_auth/account", map[string]string{}},
		{"lenient decoding", "/a/100%", "/a/$id", map[string]string{"id": "100%"}},
		{"invalid escape kept", "/a/%zz", "/a/$id", map[string]string{"id": "%zz"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, ok := table.Match(tt.path)
			require.True(t, ok, "no match for %q", tt.path)
			assert.Equal(t, tt.id, m.ID())
			assert.Equal(t, tt.params, m.Params.Strings())
		})
	}
}

func TestMatchMisses(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{
		"/a/b",
		"/posts/{-$slug}",
		"/logs/{$}.log",
		"/users/$id",
		"/About",
	})

	for _, path := range []string{
		"/",
		"/a",
		"/a/b/c",
		"/posts/a/b",
		"/logs/error.csv",
		"/logs/a/error.log",
		"/logs",
		"/users",
		"/users/1/2",
		"/about",
		"/missing",
	} {
		path := path
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			m, ok := table.Match(path)
			assert.False(t, ok)
			assert.Nil(t, m)
		})
	}
}

func TestMatchOptionalAbsence(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/posts/{-$slug}"})

	m, ok := table.Match("/posts")
	require.True(t, ok)
	v, captured := m.Params["slug"]
	require.True(t, captured)
	assert.True(t, v.IsAbsent())
	assert.Equal(t, ValueAbsent, v.Kind())
	assert.False(t, m.Params.Has("slug"))

	m, ok = table.Match("/posts/hello")
	require.True(t, ok)
	assert.Equal(t, Str("hello"), m.Params["slug"])
	assert.True(t, m.Params.Has("slug"))
}

func TestMatchExactLeafBeatsWildcard(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/files/$", "/files", "/files/{-$name}"})

	m, ok := table.Match("/files")
	require.True(t, ok)
	assert.Equal(t, "/files", m.ID())

	m, ok = table.Match("/files/a")
	require.True(t, ok)
	assert.Equal(t, "/files/{-$name}", m.ID())

	m, ok = table.Match("/files/a/b")
	require.True(t, ok)
	assert.Equal(t, "/files/$", m.ID())
}

func TestMatchSplatEncoding(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/files/$"})

	m, ok := table.Match("/files/a%20b//c%2Fd/")
	require.True(t, ok)

	splat, ok := m.Params.Splat()
	require.True(t, ok)
	assert.Equal(t, ValueSplat, splat.Kind())
	assert.Equal(t, "a b/c/d", splat.String())
	assert.Equal(t, "a%20b/c%2Fd", splat.Raw())
	assert.Equal(t, []string{"a b", "c/d"}, splat.Segments())
}

func TestMatchRawParam(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/u/$name"})
	m, ok := table.Match("/u/J%C3%BCrgen")
	require.True(t, ok)
	assert.Equal(t, "Jürgen", m.Params["name"].String())
	assert.Equal(t, "J%C3%BCrgen", m.Params["name"].Raw())
}

func TestMatchGroupsAreURLInvisible(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"(group)/_layout", "/_layout"})

	m, ok := table.Match("/")
	require.True(t, ok)
	assert.Equal(t, "(group)/_layout", m.ID())
	assert.Empty(t, m.Params)

	grouped, ok := table.Lookup("(group)/_layout")
	require.True(t, ok)
	bare, ok := table.Lookup("/_layout")
	require.True(t, ok)
	assert.Equal(t, grouped.Matchable, bare.Matchable)
	assert.NotEqual(t, grouped.Segments, bare.Segments)

	for _, raw := range []string{"(group)/_layout", "/_layout"} {
		alone := mustCompile(t, []string{raw})
		m, ok := alone.Match("/")
		require.True(t, ok, raw)
		assert.Equal(t, raw, m.ID())
		assert.Empty(t, m.Params)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	t.Parallel()

	raw := []string{"/About/$id", "/logs/{$}.LOG"}

	sensitive := mustCompile(t, raw)
	_, ok := sensitive.Match("/about/X")
	assert.False(t, ok)

	table := mustCompile(t, raw, WithCaseInsensitive())
	assert.True(t, table.CaseInsensitive())

	m, ok := table.Match("/aBOUT/X")
	require.True(t, ok)
	assert.Equal(t, "/About/$id", m.ID())
	assert.Equal(t, "X", m.Params["id"].String())

	m, ok = table.Match("/LOGS/Error.log")
	require.True(t, ok)
	assert.Equal(t, "/logs/{$}.LOG", m.ID())
	assert.Equal(t, "Error", m.Params[SplatParam].String())
}

func TestMatchCaseInsensitiveFoldsInput(t *testing.T) {
	t.Parallel()

	kelvin := "\u212A"

	table := mustCompile(t, []string{"/K", "/f/k{$}", "/x/{$}.K"}, WithCaseInsensitive())

	m, ok := table.Match("/" + kelvin)
	require.True(t, ok)
	assert.Equal(t, "/K", m.ID())

	m, ok = table.Match("/f/" + kelvin + "abc")
	require.True(t, ok)
	assert.Equal(t, "/f/k{$}", m.ID())
	assert.Equal(t, "abc", m.Params[SplatParam].String())
	assert.Equal(t, "abc", m.Params[SplatParam].Raw())

	m, ok = table.Match("/x/name." + kelvin)
	require.True(t, ok)
	assert.Equal(t, "/x/{$}.K", m.ID())
	assert.Equal(t, "name", m.Params[SplatParam].String())

	_, ok = table.Match("/f/" + kelvin)
	assert.True(t, ok, "empty capture is allowed")
	_, ok = table.Match("/x/." + kelvin)
	assert.True(t, ok)

	dotted := mustCompile(t, []string{"/\u0130"}, WithCaseInsensitive())
	_, ok = dotted.Match("/i")
	assert.True(t, ok)

	plain := mustCompile(t, []string{"/i"}, WithCaseInsensitive())
	_, ok = plain.Match("/\u0130")
	assert.True(t, ok)
}

func TestMatchFramedRaw(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/img/thumb-{$}.png"})

	m, ok := table.Match("/img/thumb-%7Ea%20b.png")
	require.True(t, ok)
	splat := m.Params[SplatParam]
	assert.Equal(t, "~a b", splat.String())
	assert.Equal(t, "%7Ea%20b", splat.Raw())

	m, ok = table.Match("/img/thumb%2D%7e.png")
	require.True(t, ok)
	assert.Equal(t, "~", m.Params[SplatParam].String())
	assert.Equal(t, "%7e", m.Params[SplatParam].Raw())

	folded := mustCompile(t, []string{"/img/thumb-{$}.png"}, WithCaseInsensitive())
	m, ok = folded.Match("/IMG/THUMB-%7Ex.PNG")
	require.True(t, ok)
	assert.Equal(t, "~x", m.Params[SplatParam].String())
	assert.Equal(t, "%7Ex", m.Params[SplatParam].Raw())
}

func TestMatchPrefix(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/", "/posts", "/posts/$id", "/docs/{-$lang}", "/files/$"})

	tests := []struct {
		path      string
		id        string
		params    map[string]string
		remainder string
	}{
		{"/", "/", nil, ""},
		{"/posts/1", "/posts/$id", map[string]string{"id": "1"}, ""},
		{"/posts/1/comments/%20x", "/posts/$id", map[string]string{"id": "1"}, "comments/%20x"},
		{"/docs/en/intro", "/docs/{-$lang}", map[string]string{"lang": "en"}, "intro"},
		{"/files/a/b", "/files/$", map[string]string{SplatParam: "a/b"}, ""},
	}

	for _, tt := range tests {
		m, ok := table.MatchPrefix(tt.path)
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.id, m.ID(), tt.path)
		assert.Equal(t, tt.remainder, m.Remainder, tt.path)
		if tt.params != nil {
			assert.Equal(t, tt.params, m.Params.Strings(), tt.path)
		}
	}

	_, ok := table.MatchPrefix("/nope/x")
	assert.False(t, ok, "root does not match as a prefix")

	m, ok := table.Match("/posts/1/comments")
	assert.False(t, ok)
	assert.Nil(t, m)
}

func TestMatchDeterministic(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/a/$x", "/a/$y", "/$z/b", "/a/$"})
	paths := []string{"/a/1", "/q/b", "/a/b", "/a/1/2", "/none/x"}

	first := make([]*MatchResult, len(paths))
	for i, p := range paths {
		first[i], _ = table.Match(p)
	}
	for n := 0; n < 50; n++ {
		for i, p := range paths {
			m, _ := table.Match(p)
			assert.Equal(t, first[i], m, p)
		}
	}
}

func TestMatchPanicsOnCorruptTable(t *testing.T) {
	t.Parallel()

	t.Run("wildcard mid-pattern", func(t *testing.T) {
		t.Parallel()
		bad := newRoutePattern("/$/x", []Segment{Wildcard(), Literal("x")}, 0, false)
		table := &Table{patterns: []*RoutePattern{bad}, dynamic: []int{0}}
		assert.Panics(t, func() { table.Match("/a/x") })
	})

	t.Run("unknown segment kind", func(t *testing.T) {
		t.Parallel()
		bad := &RoutePattern{
			ID:        "bad",
			Matchable: []Segment{{Kind: SegmentKind(99)}},
			literals:  []string{""},
			maxSegs:   1,
		}
		table := &Table{patterns: []*RoutePattern{bad}, dynamic: []int{0}}
		assert.Panics(t, func() { table.Match("/a") })
	})
}
