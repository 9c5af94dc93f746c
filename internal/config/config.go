package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"copyselect/internal/cache/store"
	"copyselect/internal/cache/store/sqlite"
	"copyselect/internal/ranges"

	"github.com/BurntSushi/toml"
)

const appName = "copyselect"

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Policy    string `json:"policy" toml:"policy"`
	Collapse  string `json:"collapse" toml:"collapse"`
	Backend   string `json:"backend" toml:"backend"`
	StateDir  string `json:"state_dir" toml:"state_dir"`
	Separator string `json:"separator" toml:"separator"`
	Root      string `json:"root" toml:"root"`
	Highlight bool   `json:"highlight" toml:"highlight"`
}

var defaultConfig = Config{
	Policy:    "reject",
	Collapse:  "drop",
	Backend:   BackendJSON,
	Separator: "\n",
	Root:      ".",
	Highlight: true,
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return defaultConfig
}

// Load overlays v, usually the LSP initializationOptions, on the defaults.
func Load(v any) (Config, error) {
	return defaultConfig.Overlay(v)
}

// Overlay returns c with the fields present in v replaced.
func (c Config) Overlay(v any) (Config, error) {
	cfg := c
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	// only fields present in src will overwrite.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// LoadFromTOML reads the TOML file at path into a Config. Unknown keys are
// rejected.
func LoadFromTOML(path string) (Config, error) {
	cfg := defaultConfig

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := ranges.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := ranges.ParseCollapse(c.Collapse); err != nil {
		return err
	}
	switch c.Backend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// RangePolicy returns the parsed overlap policy. Call Validate first.
func (c Config) RangePolicy() ranges.Policy {
	p, _ := ranges.ParsePolicy(c.Policy)
	return p
}

// RangeCollapse returns the parsed collapse policy. Call Validate first.
func (c Config) RangeCollapse() ranges.Collapse {
	col, _ := ranges.ParseCollapse(c.Collapse)
	return col
}

// StatePath returns the file holding the selections of the workspace at
// root, creating its directory. It is empty for the memory backend.
func (c Config) StatePath(root string) (string, error) {
	var name string
	switch c.Backend {
	case BackendJSON:
		name = "selections.json"
	case BackendSQLite:
		name = "selections.db"
	default:
		return "", nil
	}

	base := c.StateDir
	if base == "" {
		stateHome, err := getXDGStateHome(appName)
		if err != nil {
			return "", err
		}
		base = filepath.Join(stateHome, url.PathEscape(filepath.ToSlash(root)))
	}

	if err := os.MkdirAll(base, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return filepath.Join(base, name), nil
}

// OpenBackend opens the configured persistence backend for the workspace
// at root.
func (c Config) OpenBackend(root string) (store.Backend, error) {
	if c.Backend == BackendMemory {
		return store.NewMemory(), nil
	}

	path, err := c.StatePath(root)
	if err != nil {
		return nil, err
	}
	switch c.Backend {
	case BackendSQLite:
		db, err := sqlite.New(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendJSON:
		f, err := store.NewFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

func getXDGStateHome(appName string) (string, error) {
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgStateHome = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(xdgStateHome, appName), nil
}
