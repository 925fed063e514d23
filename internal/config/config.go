package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/internal/logging"
	"github.com/vango-dev/routetable/pkg/router"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routetable.json"

	// DefaultPort is the default debug server port.
	DefaultPort = 7070

	// DefaultHost is the default debug server host.
	DefaultHost = "localhost"

	// DefaultManifest is the default route manifest path.
	DefaultManifest = "routes.yaml"

	// DefaultDebounce is the default delay between a manifest change and
	// the reload it triggers.
	DefaultDebounce = 100 * time.Millisecond
)

// Manifest formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Config represents the complete routetable.json configuration.
type Config struct {
	// Manifest says where the route patterns come from.
	Manifest ManifestConfig `json:"manifest"`

	// Router contains compile options.
	Router RouterConfig `json:"router"`

	// Server contains debug server settings.
	Server ServerConfig `json:"server"`

	// Watch contains manifest watch settings.
	Watch WatchConfig `json:"watch"`

	// Log contains logger settings.
	Log logging.Config `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ManifestConfig locates the route manifest. Exactly one of Path and S3 is
// used; S3 wins when both are set.
type ManifestConfig struct {
	// Path is a local manifest file, relative to the config file.
	Path string `json:"path,omitempty"`

	// Format is json, yaml or text. Empty means infer from the extension.
	Format string `json:"format,omitempty"`

	// S3 is a manifest object in S3.
	S3 *S3Config `json:"s3,omitempty"`
}

// S3Config locates a manifest object in S3.
type S3Config struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Region string `json:"region,omitempty"`
}

// RouterConfig mirrors the router compile options.
type RouterConfig struct {
	// CaseInsensitive matches literals regardless of case.
	CaseInsensitive bool `json:"caseInsensitive,omitempty"`

	// StrictAmbiguity rejects routes that differ only in param names.
	StrictAmbiguity bool `json:"strictAmbiguity,omitempty"`
}

// ServerConfig contains debug server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `json:"metrics,omitempty"`
}

// WatchConfig contains manifest watch settings.
type WatchConfig struct {
	// Enabled reloads the table when the manifest file changes.
	Enabled bool `json:"enabled,omitempty"`

	// Debounce is a Go duration such as "250ms".
	Debounce string `json:"debounce,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Manifest: ManifestConfig{
			Path: DefaultManifest,
		},
		Server: ServerConfig{
			Host:    DefaultHost,
			Port:    DefaultPort,
			Metrics: true,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce.String(),
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads configuration from the specified directory.
// It looks for routetable.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R041").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass the manifest on the command line").
				Wrap(err)
		}
		return nil, errors.New("R041").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R041").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("R041").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R041").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce.String()
	}
	if c.Manifest.Path == "" && c.Manifest.S3 == nil {
		c.Manifest.Path = DefaultManifest
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("R040").
			WithDetail("server.port must be between 1 and 65535")
	}

	if s3 := c.Manifest.S3; s3 != nil {
		if s3.Bucket == "" || s3.Key == "" {
			return errors.New("R040").
				WithDetail("manifest.s3 needs both bucket and key")
		}
	} else if c.Manifest.Path == "" {
		return errors.New("R040").
			WithDetail("manifest.path or manifest.s3 must be set")
	}

	switch c.Manifest.Format {
	case "", FormatJSON, FormatYAML, FormatText:
	default:
		return errors.New("R040").
			WithDetail("manifest.format must be json, yaml or text, got " + strconv.Quote(c.Manifest.Format))
	}

	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		return errors.New("R040").
			WithDetail("watch.debounce must be a non-negative duration such as \"250ms\"")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.New("R040").WithDetail("log.level: " + err.Error())
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return errors.New("R040").
			WithDetail("log.format must be json or console, got " + strconv.Quote(c.Log.Format))
	}

	return nil
}

// Address returns the host:port string for the debug server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ManifestPath returns the manifest path resolved against the config
// directory.
func (c *Config) ManifestPath() string {
	path := c.Manifest.Path
	if path == "" || filepath.IsAbs(path) || c.Dir() == "" {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// ManifestFormat returns the manifest format, inferring it from the file
// extension when unset.
func (c *Config) ManifestFormat() string {
	if c.Manifest.Format != "" {
		return c.Manifest.Format
	}
	name := c.Manifest.Path
	if c.Manifest.S3 != nil {
		name = c.Manifest.S3.Key
	}
	return FormatFromExt(name)
}

// FormatFromExt infers a manifest format from a file name.
func FormatFromExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// DebounceDuration returns the parsed watch debounce, or DefaultDebounce if
// it does not parse.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return DefaultDebounce
	}
	return d
}

// CompileOptions converts the router settings into compile options.
func (c *Config) CompileOptions() []router.Option {
	var opts []router.Option
	if c.Router.CaseInsensitive {
		opts = append(opts, router.WithCaseInsensitive())
	}
	if c.Router.StrictAmbiguity {
		opts = append(opts, router.WithStrictAmbiguity())
	}
	return opts
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// routetable.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R041").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
