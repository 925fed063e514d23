package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/routepath"
)

func matchCmd(g *globalFlags) *cobra.Command {
	var (
		asJSON   bool
		opts     resolveOptions
		trailing string
	)

	cmd := &cobra.Command{
		Use:   "match <path>...",
		Short: "Resolve paths against the compiled manifest",
		Long: `Compile the route manifest and print the pattern each path resolves to,
with its captured params. Query strings and fragments are ignored.

With --from, each path is resolved against the base path first, so relative
paths such as ./edit and ../42 work. With --fuzzy, a path that no pattern
matches in full resolves to the longest matching prefix and the rest is
reported.

Examples:
  routetable match /posts/42
  routetable match -m routes.txt /files/a/b /docs
  routetable match --from /posts/42 ../7 ./edit
  routetable match --fuzzy /posts/42/comments`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			table, m, err := compileManifest(cmd.Context(), cfg)
			if err != nil {
				return reportBuildErrors(cmd.ErrOrStderr(), m, err)
			}

			policy, err := routepath.ParseTrailingSlash(trailing)
			if err != nil {
				return err
			}
			opts.trailing = policy

			results := make([]matchEntry, 0, len(args))
			for _, arg := range args {
				results = append(results, resolve(table, arg, opts))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, r := range results {
				writeMatch(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&opts.fuzzy, "fuzzy", false, "Fall back to the longest matching prefix")
	cmd.Flags().StringVar(&opts.from, "from", "", "Resolve paths relative to this base path")
	cmd.Flags().StringVar(&trailing, "trailing-slash", "never", "Trailing slash of resolved paths: never, always or preserve")

	return cmd
}

type matchEntry struct {
	Path      string            `json:"path"`
	Matched   bool              `json:"matched"`
	ID        string            `json:"id,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Remainder string            `json:"remainder,omitempty"`
}

type resolveOptions struct {
	fuzzy    bool
	from     string
	trailing routepath.TrailingSlash
}

func resolve(table *router.Table, input string, opts resolveOptions) matchEntry {
	path, _ := routepath.SplitPathAndQuery(input)
	if opts.from != "" {
		path = routepath.ResolvePath(opts.from, path, opts.trailing)
	}
	entry := matchEntry{Path: path}

	match := table.Match
	if opts.fuzzy {
		match = table.MatchPrefix
	}
	m, ok := match(path)
	if !ok {
		return entry
	}
	entry.Matched = true
	entry.ID = m.ID()
	entry.Remainder = m.Remainder
	if len(m.Params) > 0 {
		entry.Params = m.Params.Strings()
	}
	return entry
}

func writeMatch(w io.Writer, r matchEntry) {
	if !r.Matched {
		fmt.Fprintf(w, "%s -> no match\n", r.Path)
		return
	}
	fmt.Fprintf(w, "%s -> %s", r.Path, r.ID)
	if len(r.Params) > 0 {
		fmt.Fprintf(w, " %v", r.Params)
	}
	if r.Remainder != "" {
		fmt.Fprintf(w, " (rest: %s)", r.Remainder)
	}
	fmt.Fprintln(w)
}
