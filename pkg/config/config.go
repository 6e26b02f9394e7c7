// Package config loads the optional retain.yaml of an application and
// resolves it into engine options.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/retain/pkg/anchor"
	"github.com/go-drift/retain/pkg/engine"
)

// FileName is the name of the configuration file.
const FileName = "retain.yaml"

// Config represents the optional retain.yaml configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Engine EngineConfig `yaml:"engine"`
	Layout LayoutConfig `yaml:"layout"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name  string `yaml:"name,omitempty"`
	Title string `yaml:"title,omitempty"`
}

// EngineConfig contains render loop settings.
type EngineConfig struct {
	Idle    time.Duration `yaml:"idle,omitempty"`
	Settle  int           `yaml:"settle,omitempty"`
	Verbose bool          `yaml:"verbose,omitempty"`
}

// LayoutConfig contains the first-layout options of every container.
type LayoutConfig struct {
	AutoDiscover bool         `yaml:"autoDiscover,omitempty"`
	SizeGrip     bool         `yaml:"sizeGrip,omitempty"`
	FitParent    bool         `yaml:"fitParent,omitempty"`
	DefaultFlags anchor.Flags `yaml:"defaultFlags,omitempty"`
	GripSize     int          `yaml:"gripSize,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	AppTitle   string
	Idle       time.Duration
	Settle     int
	Verbose    bool
	Layout     anchor.Options
}

// LoadOptional reads retain.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes a retain.yaml document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads retain.yaml (if present) and resolves defaults. The
// enclosing go.mod, when there is one, names the application.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}
	appTitle := strings.TrimSpace(cfg.App.Title)
	if appTitle == "" {
		appTitle = appName
	}

	if cfg.Engine.Idle < 0 {
		return nil, fmt.Errorf("engine.idle cannot be negative (got %s)", cfg.Engine.Idle)
	}
	if cfg.Engine.Settle < 0 {
		return nil, fmt.Errorf("engine.settle cannot be negative (got %d)", cfg.Engine.Settle)
	}
	if cfg.Layout.GripSize < 0 {
		return nil, fmt.Errorf("layout.gripSize cannot be negative (got %d)", cfg.Layout.GripSize)
	}

	idle := cfg.Engine.Idle
	if idle == 0 {
		idle = engine.DefaultIdle
	}
	settle := cfg.Engine.Settle
	if settle == 0 {
		settle = engine.DefaultSettle
	}
	gripSize := cfg.Layout.GripSize
	if gripSize == 0 {
		gripSize = anchor.DefaultGripSize
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		AppTitle:   appTitle,
		Idle:       idle,
		Settle:     settle,
		Verbose:    cfg.Engine.Verbose,
		Layout: anchor.Options{
			AutoDiscover: cfg.Layout.AutoDiscover,
			DefaultFlags: cfg.Layout.DefaultFlags,
			SizeGrip:     cfg.Layout.SizeGrip,
			GripSize:     gripSize,
			FitParent:    cfg.Layout.FitParent,
		},
	}, nil
}

// EngineOptions converts r into engine options logging to logger.
func (r *Resolved) EngineOptions(logger *slog.Logger) engine.Options {
	return engine.Options{
		Idle:    r.Idle,
		Settle:  r.Settle,
		Layout:  r.Layout,
		Logger:  logger,
		Verbose: r.Verbose,
	}
}

// Config returns r as a fully populated configuration document.
func (r *Resolved) Config() *Config {
	return &Config{
		App: AppConfig{Name: r.AppName, Title: r.AppTitle},
		Engine: EngineConfig{
			Idle:    r.Idle,
			Settle:  r.Settle,
			Verbose: r.Verbose,
		},
		Layout: LayoutConfig{
			AutoDiscover: r.Layout.AutoDiscover,
			SizeGrip:     r.Layout.SizeGrip,
			FitParent:    r.Layout.FitParent,
			DefaultFlags: r.Layout.DefaultFlags,
			GripSize:     r.Layout.GripSize,
		},
	}
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// FindProjectRoot walks up from dir to find go.mod.
func FindProjectRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found): %w", os.ErrNotExist)
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "retain_app"
	}
	return base
}
