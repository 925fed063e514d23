package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/internal/manifest"
	"github.com/vango-dev/routetable/pkg/router"
)

func compileCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compile [manifest]",
		Short: "Compile a manifest and print the ranked table",
		Long: `Compile the route manifest and print its patterns in match order.

Every invalid pattern, duplicate and ambiguity is reported, not only the
first one.

Examples:
  routetable compile
  routetable compile routes.yaml
  routetable compile --json --strict routes.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				g.manifest = args[0]
			}
			cfg, err := g.load()
			if err != nil {
				return err
			}

			table, m, err := compileManifest(cmd.Context(), cfg)
			if err != nil {
				return reportBuildErrors(cmd.ErrOrStderr(), m, err)
			}

			if asJSON {
				return writeTableJSON(cmd.OutOrStdout(), table)
			}
			writeTable(cmd.OutOrStdout(), table)
			success(cmd.OutOrStdout(), "Compiled %d patterns from %s", table.Len(), m.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")

	return cmd
}

// compileManifest loads the configured manifest and compiles it. The
// manifest is returned with build errors so they can be annotated.
func compileManifest(ctx context.Context, cfg *config.Config) (*router.Table, *manifest.Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := manifest.FromConfig(cfg, nil).Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	table, err := router.Compile(m.Patterns, cfg.CompileOptions()...)
	return table, m, err
}

// reportBuildErrors prints one block per build error, pointing at the
// declaring manifest line.
func reportBuildErrors(w io.Writer, m *manifest.Manifest, err error) error {
	if m == nil {
		return err
	}
	errs := m.Annotate(errors.FromBuildError(err))
	for _, e := range errs {
		fmt.Fprint(w, e.Format())
	}
	fmt.Fprintf(w, "\n%d error(s) in %s\n", len(errs), m.Name)
	return &reportedError{count: len(errs)}
}

func writeTable(w io.Writer, table *router.Table) {
	for i, p := range table.Patterns() {
		kind := "route"
		if p.IsLayout() {
			kind = "layout"
		}
		fmt.Fprintf(w, "%4d  %-6s  %-32s  %s\n", i, kind, p.ID, p.Rank)
	}
}

type tableEntry struct {
	ID     string   `json:"id"`
	Layout bool     `json:"layout"`
	Rank   string   `json:"rank"`
	Params []string `json:"params,omitempty"`
	Parent string   `json:"parent,omitempty"`
}

func writeTableJSON(w io.Writer, table *router.Table) error {
	entries := make([]tableEntry, 0, table.Len())
	for _, p := range table.Patterns() {
		e := tableEntry{
			ID:     p.ID,
			Layout: p.IsLayout(),
			Rank:   p.Rank.String(),
			Params: p.ParamNames(),
		}
		if parent, ok := table.Parent(p.ID); ok {
			e.Parent = parent.ID
		}
		entries = append(entries, e)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
