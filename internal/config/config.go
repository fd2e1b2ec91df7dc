package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/route"
	"github.com/vango-dev/vroute/pkg/routepath"
)

const (
	// FileJSON is the default configuration file name.
	FileJSON = "vroute.json"

	// FileYAML and FileYML are the YAML configuration file names.
	FileYAML = "vroute.yaml"
	FileYML  = "vroute.yml"

	// DefaultAddress is the default listen address of vroute serve.
	DefaultAddress = "localhost:3000"
)

// FileNames lists the configuration file names in lookup order.
var FileNames = []string{FileJSON, FileYAML, FileYML}

// History modes.
const (
	HistoryBrowser = "browser"
	HistoryHash    = "hash"
	HistoryMemory  = "memory"
)

// Config is the complete vroute configuration.
type Config struct {
	// Basename is the path prefix the application is mounted under.
	Basename string `json:"basename,omitempty" yaml:"basename,omitempty"`

	// History selects the history backend.
	History string `json:"history,omitempty" yaml:"history,omitempty"`

	// Routes are the route patterns in priority order.
	Routes []Route `json:"routes,omitempty" yaml:"routes,omitempty"`

	// NotFound names the route rendered when nothing matches.
	NotFound string `json:"not_found,omitempty" yaml:"not_found,omitempty"`

	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
	Log    LogConfig    `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// Route is one named route pattern.
type Route struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`

	// position of the pattern in a YAML file, 0 when unknown
	line, column int
}

// ServerConfig configures vroute serve.
type ServerConfig struct {
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New returns a configuration with defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration file in dir.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("V020").
		WithDetail("No vroute.json, vroute.yaml or vroute.yml found in " + dir).
		WithSuggestion("Run 'vroute init' to create one")
}

// LoadFile reads and validates the configuration file at path. The format
// follows the file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("V020").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Run 'vroute init' to create one")
		}
		return nil, errors.New("V021").Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = cfg.decodeYAML(data)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("V021").
			WithLocation(path, 0, 0).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// decodeYAML decodes through a node tree so route positions are kept.
func (c *Config) decodeYAML(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	if err := doc.Decode(c); err != nil {
		return err
	}

	root := doc.Content[0]
	routes := mappingValue(root, "routes")
	if routes == nil || routes.Kind != yaml.SequenceNode {
		return nil
	}
	for i, item := range routes.Content {
		if i >= len(c.Routes) {
			break
		}
		if p := mappingValue(item, "pattern"); p != nil {
			c.Routes[i].line, c.Routes[i].column = p.Line, p.Column
		}
	}
	return nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as YAML or JSON by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("V021").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("V021").Wrap(err)
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
	if c.History == "" {
		c.History = HistoryBrowser
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration, including every route pattern.
func (c *Config) Validate() error {
	switch c.History {
	case HistoryBrowser, HistoryHash, HistoryMemory:
	default:
		return errors.New("V022").
			WithLocation(c.configPath, 0, 0).
			WithSuggestion(fmt.Sprintf("Replace %q with browser, hash or memory", c.History))
	}

	if _, err := c.Log.level(); err != nil {
		return errors.New("V023").WithLocation(c.configPath, 0, 0).Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("V023").
			WithLocation(c.configPath, 0, 0).
			Wrap(fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if err := validateBasename(c.Basename); err != nil {
		return errors.New("V024").WithLocation(c.configPath, 0, 0).Wrap(err)
	}

	names := make(map[string]bool, len(c.Routes))
	for _, r := range c.Routes {
		if _, err := route.Compile(r.Pattern); err != nil {
			return errors.New("V001").
				WithLocation(c.configPath, r.line, r.column).
				WithSuggestion(fmt.Sprintf("Fix the pattern of route %q", r.Name)).
				Wrap(err)
		}
		if r.Name == "" || names[r.Name] {
			return errors.New("V002").
				WithLocation(c.configPath, r.line, r.column).
				WithDetail(fmt.Sprintf("Route names must be unique and non-empty, got %q for %s.", r.Name, r.Pattern))
		}
		names[r.Name] = true
	}

	if c.NotFound != "" && !names[c.NotFound] {
		return errors.New("V003").
			WithLocation(c.configPath, 0, 0).
			WithSuggestion(fmt.Sprintf("Declare a route named %q or remove not_found", c.NotFound))
	}

	if _, err := c.Table(); err != nil {
		code := "V001"
		if stderrors.Is(err, route.ErrDuplicateRoute) {
			code = "V002"
		}
		return errors.New(code).WithLocation(c.configPath, 0, 0).Wrap(err)
	}
	return nil
}

func validateBasename(basename string) error {
	b := routepath.NormalizeBasename(basename)
	if b == "" {
		return nil
	}
	if strings.ContainsAny(b, "?#") {
		return fmt.Errorf("basename %q contains a query or fragment", basename)
	}
	canonical, err := routepath.CanonicalizePath(b)
	if err != nil {
		return err
	}
	if canonical != b {
		return fmt.Errorf("basename %q is not canonical, use %q", basename, canonical)
	}
	return nil
}

// Table builds the route table declared by the configuration.
func (c *Config) Table() (*route.Table[route.Named], error) {
	entries := make([]route.ManifestEntry, len(c.Routes))
	for i, r := range c.Routes {
		entries[i] = route.ManifestEntry{Name: r.Name, Pattern: r.Pattern}
	}
	return route.NewManifest(entries, c.NotFound)
}

// NewHistory creates the configured history backend at initialURL. opts
// apply to the browser and hash backends.
func (c *Config) NewHistory(initialURL string, opts ...history.Option) (history.History, error) {
	switch c.History {
	case HistoryBrowser:
		return history.NewBrowserHistory(initialURL, opts...), nil
	case HistoryHash:
		return history.NewHashHistory(initialURL, opts...), nil
	case HistoryMemory:
		return history.NewMemoryHistory(initialURL), nil
	default:
		return nil, errors.New("V022")
	}
}

// NewLogger builds a slog logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}
}

func (l LogConfig) level() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", l.Level)
	}
}

// Exists reports whether dir holds a configuration file.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the first directory holding a
// configuration file.
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
			return "", errors.New("V020").
				WithDetail("No vroute configuration found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vroute init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the configuration of the project containing the
// working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
