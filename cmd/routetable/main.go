package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command. Set flags override
// routetable.json.
type globalFlags struct {
	configPath      string
	manifest        string
	format          string
	caseInsensitive bool
	strict          bool
	logLevel        string
	noColor         bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !stderrors.As(err, &reported) {
			errors.Print(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reportedError marks a failure whose details were already printed.
type reportedError struct {
	count int
}

func (e *reportedError) Error() string {
	return fmt.Sprintf("%d error(s)", e.count)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routetable",
		Short: "Compile and inspect route pattern tables",
		Long: `routetable compiles route patterns such as /posts/$id, /files/$ and
/docs/{-$lang} into a ranked match table.

Patterns come from a manifest (YAML, JSON or one pattern per line) named
in routetable.json or on the command line. Compile errors point at the
offending segment of the pattern and the line that declared it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Path to routetable.json or its directory")
	pf.StringVarP(&g.manifest, "manifest", "m", "", "Manifest file (overrides config)")
	pf.StringVar(&g.format, "format", "", "Manifest format: json, yaml or text")
	pf.BoolVarP(&g.caseInsensitive, "case-insensitive", "i", false, "Match literals case-insensitively")
	pf.BoolVar(&g.strict, "strict", false, "Reject patterns that differ only in param names")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		compileCmd(g),
		matchCmd(g),
		serveCmd(g),
		benchCmd(g),
		explainCmd(),
		versionCmd(),
	)

	return rootCmd
}

// load resolves the configuration: an explicit --config, else the nearest
// routetable.json above the working directory, else defaults.
func (g *globalFlags) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case g.configPath != "":
		if info, statErr := os.Stat(g.configPath); statErr == nil && info.IsDir() {
			cfg, err = config.Load(g.configPath)
		} else {
			cfg, err = config.LoadFile(g.configPath)
		}
		if err != nil {
			return nil, err
		}
	default:
		cfg = config.New()
		if wd, wdErr := os.Getwd(); wdErr == nil {
			if root, rootErr := config.FindProjectRoot(wd); rootErr == nil {
				if cfg, err = config.Load(root); err != nil {
					return nil, err
				}
			}
		}
	}

	if g.manifest != "" {
		path, err := filepath.Abs(g.manifest)
		if err != nil {
			return nil, err
		}
		cfg.Manifest.Path = path
		cfg.Manifest.S3 = nil
		cfg.Manifest.Format = ""
	}
	if g.format != "" {
		cfg.Manifest.Format = g.format
	}
	if g.caseInsensitive {
		cfg.Router.CaseInsensitive = true
	}
	if g.strict {
		cfg.Router.StrictAmbiguity = true
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
