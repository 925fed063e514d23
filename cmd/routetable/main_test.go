package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/pkg/router"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestCompile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/\n/posts/$id\n/posts/new\n")

	out, _, err := run(t, "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 3 patterns")
	assert.Less(t, bytes.Index([]byte(out), []byte("/posts/new")), bytes.Index([]byte(out), []byte("/posts/$id")))
}

func TestCompileJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.yaml", "routes:\n  - /\n  - /_auth\n  - /_auth/settings\n")

	out, _, err := run(t, "compile", "--json", path)
	require.NoError(t, err)

	var entries []tableEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)

	byID := make(map[string]tableEntry)
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.True(t, byID["/_auth"].Layout)
	assert.Equal(t, "/_auth", byID["/_auth/settings"].Parent)
}

func TestCompileErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/\n/files/$/edit\n/$1st\n")

	_, stderr, err := run(t, "compile", path)
	require.Error(t, err)

	var reported *reportedError
	require.ErrorAs(t, err, &reported)
	assert.Equal(t, 2, reported.count)
	assert.Contains(t, stderr, "ERROR R003")
	assert.Contains(t, stderr, path+":2")
	assert.Contains(t, stderr, "ERROR R001")
	assert.Contains(t, stderr, path+":3")
	assert.Contains(t, stderr, "2 error(s)")
}

func TestCompileStrict(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/a/$x\n/a/$y\n")

	_, _, err := run(t, "compile", path)
	require.NoError(t, err)

	_, stderr, err := run(t, "compile", "--strict", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "ERROR R021")
}

func TestCompileMissingManifest(t *testing.T) {
	_, _, err := run(t, "compile", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R042")
}

func TestCompileFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "routes.json", `{"routes": ["/", "/About"]}`)
	writeFile(t, dir, config.ConfigFileName, `{"manifest": {"path": "routes.json"}, "router": {"caseInsensitive": true}}`)

	out, _, err := run(t, "--config", dir, "match", "/about")
	require.NoError(t, err)
	assert.Equal(t, "/about -> /About\n", out)
}

func TestMatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/\n/posts/$id\n/files/$\n")

	out, _, err := run(t, "match", "-m", path, "/posts/42?x=1", "/files/a/b", "/nope/x")
	require.NoError(t, err)
	assert.Equal(t, "/posts/42 -> /posts/$id map[id:42]\n"+
		"/files/a/b -> /files/$ map[_splat:a/b]\n"+
		"/nope/x -> no match\n", out)

	out, _, err = run(t, "match", "--json", "-m", path, "/posts/7")
	require.NoError(t, err)
	var results []matchEntry
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "/posts/$id", results[0].ID)
	assert.Equal(t, map[string]string{"id": "7"}, results[0].Params)

	_, _, err = run(t, "match", "-m", path)
	assert.Error(t, err)
}

func TestMatchFromAndFuzzy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/posts\n/posts/$id\n/posts/$id/edit\n")

	out, _, err := run(t, "match", "-m", path, "--from", "/posts/42", "../7", "./edit", "/posts")
	require.NoError(t, err)
	assert.Equal(t, "/posts/7 -> /posts/$id map[id:7]\n"+
		"/posts/42/edit -> /posts/$id/edit map[id:42]\n"+
		"/posts -> /posts\n", out)

	out, _, err = run(t, "match", "-m", path, "--from", "/posts", "--trailing-slash", "preserve", "42/")
	require.NoError(t, err)
	assert.Equal(t, "/posts/42/ -> /posts/$id map[id:42]\n", out)

	out, _, err = run(t, "match", "-m", path, "--fuzzy", "/posts/42/comments/9", "/nope")
	require.NoError(t, err)
	assert.Equal(t, "/posts/42/comments/9 -> /posts/$id map[id:42] (rest: comments/9)\n"+
		"/nope -> no match\n", out)

	_, _, err = run(t, "match", "-m", path, "--from", "/", "--trailing-slash", "sometimes", "x")
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	out, _, err := run(t, "explain")
	require.NoError(t, err)
	assert.Contains(t, out, "R001")
	assert.Contains(t, out, "R060")

	out, _, err = run(t, "explain", "R003")
	require.NoError(t, err)
	assert.Contains(t, out, "Wildcard is not the last segment")

	_, _, err = run(t, "explain", "R999")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestRunServeCanceled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/\n")

	cfg := config.New()
	cfg.Manifest.Path = path
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Watch.Enabled = true
	cfg.Log.Writer = io.Discard

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, runServe(ctx, cfg))
}

func TestBench(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.txt", "/\n/posts/$id\n/files/$\n/docs/{-$lang}\n")

	out, _, err := run(t, "bench", "-m", path, "--json", "--workers=2", "--duration=100ms", "--reload-every=10ms")
	require.NoError(t, err)

	var report benchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Workers)
	assert.Equal(t, 4, report.Paths)
	assert.Positive(t, report.Matches)
	assert.Zero(t, report.Misses)
	assert.Zero(t, report.ReloadErrors)
	assert.GreaterOrEqual(t, report.Generations, uint64(2))
	assert.Positive(t, report.LatencyNS.Samples)
}

func TestSamplePathsAndPercentile(t *testing.T) {
	table, err := router.Compile([]string{"/", "/_auth", "/posts/$id", "/files/$"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/", "/posts/x", "/files/x"}, samplePaths(table))

	sorted := []time.Duration{1, 2, 3, 4}
	assert.Equal(t, time.Duration(2), percentile(sorted, 0.5))
	assert.Equal(t, time.Duration(4), percentile(sorted, 0.99))
	assert.Equal(t, time.Duration(1), percentile(sorted, 0))
	assert.Zero(t, percentile(nil, 0.5))
}
