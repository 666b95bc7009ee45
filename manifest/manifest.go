// Package manifest handles bcgen.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "bcgen.toml"

// Environment variables that override file settings.
const (
	EnvFold      = "BCGEN_FOLD"
	EnvOutputDir = "BCGEN_OUTPUT_DIR"
	EnvStore     = "BCGEN_STORE"
)

// Manifest represents a bcgen.toml project configuration.
type Manifest struct {
	Project Project       `toml:"project"`
	Compile CompileConfig `toml:"compile"`
	Output  OutputConfig  `toml:"output"`
	Store   StoreConfig   `toml:"store"`

	// Dir is the directory containing the bcgen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
}

// CompileConfig selects compiler behavior.
type CompileConfig struct {
	Fold string `toml:"fold"` // none, cache or tree
}

// OutputConfig controls which artifacts are written and where.
type OutputConfig struct {
	Dir         string `toml:"dir"`
	Tokens      bool   `toml:"tokens"`
	Bytecode    bool   `toml:"bytecode"`
	Symbols     bool   `toml:"symbols"`
	Errors      bool   `toml:"errors"`
	FinalOutput bool   `toml:"final-output"`
	Bundle      bool   `toml:"bundle"`
}

// StoreConfig locates the run log database. An empty path disables it.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no bcgen.toml exists.
func Default() *Manifest {
	m := &Manifest{
		Compile: CompileConfig{Fold: "none"},
		Output: OutputConfig{
			Dir:         ".",
			Tokens:      true,
			Bytecode:    true,
			Symbols:     true,
			Errors:      true,
			FinalOutput: true,
			Bundle:      true,
		},
	}
	m.Dir, _ = os.Getwd()
	return m
}

// Load parses a bcgen.toml file from the given directory. Keys absent from
// the file keep their default values.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if m.Compile.Fold == "" {
		m.Compile.Fold = "none"
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "."
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a bcgen.toml file and loads it.
// When none is found it returns the defaults. Environment overrides are
// applied in both cases.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			m, err := Load(dir)
			if err != nil {
				return nil, err
			}
			m.ApplyEnv()
			return m, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	m := Default()
	m.ApplyEnv()
	return m, nil
}

// ApplyEnv overrides settings from BCGEN_* environment variables.
func (m *Manifest) ApplyEnv() {
	if env.Has(EnvFold) {
		m.Compile.Fold = env.Str(EnvFold)
	}
	if env.Has(EnvOutputDir) {
		m.Output.Dir = env.Str(EnvOutputDir)
	}
	if env.Has(EnvStore) {
		m.Store.Path = env.Str(EnvStore)
	}
}

// OutputPath returns the path of an artifact file, relative to the
// manifest directory unless the output dir is absolute.
func (m *Manifest) OutputPath(name string) string {
	if filepath.IsAbs(m.Output.Dir) {
		return filepath.Join(m.Output.Dir, name)
	}
	return filepath.Join(m.Dir, m.Output.Dir, name)
}

// StorePath returns the run log path, or "" when the store is disabled.
func (m *Manifest) StorePath() string {
	if m.Store.Path == "" || filepath.IsAbs(m.Store.Path) || m.Store.Path == ":memory:" {
		return m.Store.Path
	}
	return filepath.Join(m.Dir, m.Store.Path)
}
