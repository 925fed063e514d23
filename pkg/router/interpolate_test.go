package router

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{
		"/",
		"/posts/$id",
		"/docs/{-$lang}",
		"/files/$",
		"/logs/{$}.log",
		"/(g)/_l/about",
		"/u/$user/files/$",
	})

	tests := []struct {
		name   string
		id     string
		params Params
		want   string
	}{
		{"root", "/", nil, "/"},
		{"encoded param", "/posts/$id", Params{"id": Str("hello world")}, "/posts/hello%20world"},
		{"slash in param", "/posts/$id", Params{"id": Str("a/b")}, "/posts/a%2Fb"},
		{"optional present", "/docs/{-$lang}", Params{"lang": Str("en")}, "/docs/en"},
		{"optional absent", "/docs/{-$lang}", Params{"lang": Absent()}, "/docs"},
		{"optional missing", "/docs/{-$lang}", nil, "/docs"},
		{"optional empty", "/docs/{-$lang}", Params{"lang": Str("")}, "/docs"},
		{"splat", "/files/$", Params{SplatParam: Splat("a b", "c")}, "/files/a%20b/c"},
		{"splat from string", "/files/$", Params{SplatParam: Str("a/b/c")}, "/files/a/b/c"},
		{"empty splat", "/files/$", Params{SplatParam: Splat()}, "/files"},
		{"missing splat", "/files/$", nil, "/files"},
		{"framed", "/logs/{$}.log", Params{SplatParam: Str("error")}, "/logs/error.log"},
		{"layout segments dropped", "/(g)/_l/about", nil, "/about"},
		{"param and splat", "/u/$user/files/$", Params{"user": Str("ada"), SplatParam: SplatPath("x/y")}, "/u/ada/files/x/y"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := table.Interpolate(tt.id, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpolateErrors(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/posts/$id", "/logs/{$}.log"})

	_, err := table.Interpolate("/posts/$id", nil)
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = table.Interpolate("/posts/$id", Params{"id": Absent()})
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = table.Interpolate("/posts/$id", Params{"id": Str("")})
	assert.ErrorIs(t, err, ErrEmptyParam)

	_, err = table.Interpolate("/logs/{$}.log", nil)
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = table.Interpolate("/nope", nil)
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestInterpolateMatchedParams(t *testing.T) {
	t.Parallel()

	table := mustCompile(t, []string{"/files/$", "/u/$name"})

	for _, path := range []string{"/files/a%20b/c%2Fd", "/u/J%C3%BCrgen", "/u/100%"} {
		m, ok := table.Match(path)
		require.True(t, ok, path)

		got, err := table.Interpolate(m.ID(), m.Params)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	}
}

const valueAlphabet = "abcXYZ019-_.~ %/?#+&=éü日本"

func randomValue(rng *rand.Rand) string {
	letters := []rune(valueAlphabet)
	var b strings.Builder
	// Leading "~" keeps generated values from colliding with literals.
	b.WriteByte('~')
	for n := rng.Intn(8); n >= 0; n-- {
		b.WriteRune(letters[rng.Intn(len(letters))])
	}
	return b.String()
}

func TestInterpolateMatchRoundTrip(t *testing.T) {
	t.Parallel()

	raw := []string{
		"/",
		"/posts",
		"/posts/new",
		"/posts/$id",
		"/posts/$id/edit",
		"/docs/{-$lang}",
		"/files/$",
		"/logs/{$}.log",
		"/img/thumb-{$}",
		"/(app)/settings/$section",
		"/_auth/account/$tab",
		"/u/$user/files/$",
		"/$lang/about",
	}
	table := mustCompile(t, raw)
	rng := rand.New(rand.NewSource(1))

	for _, p := range table.Patterns() {
		for n := 0; n < 200; n++ {
			params := Params{}
			for _, s := range p.Matchable {
				switch s.Kind {
				case KindParam, KindFramedWildcard:
					params[s.Name] = Str(randomValue(rng))
				case KindOptionalParam:
					if rng.Intn(2) == 0 {
						params[s.Name] = Absent()
					} else {
						params[s.Name] = Str(randomValue(rng))
					}
				case KindWildcard:
					segments := make([]string, 1+rng.Intn(3))
					for i := range segments {
						segments[i] = randomValue(rng)
					}
					params[s.Name] = Splat(segments...)
				}
			}

			path, err := p.Interpolate(params)
			require.NoError(t, err)

			m, ok := table.Match(path)
			require.True(t, ok, "no match for %q from %q", path, p.ID)
			require.Equal(t, p.ID, m.ID(), "path %q", path)

			for name, want := range params {
				got, ok := m.Params[name]
				require.True(t, ok, "%s missing for %q", name, path)
				if want.IsAbsent() {
					assert.True(t, got.IsAbsent(), "%s for %q", name, path)
					continue
				}
				assert.Equal(t, want.String(), got.String(), "%s for %q", name, path)
				if want.Kind() == ValueSplat {
					assert.Equal(t, want.Segments(), got.Segments(), "%s for %q", name, path)
				}
			}
		}
	}
}
