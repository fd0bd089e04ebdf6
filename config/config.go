// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads renderer settings from a TOML file.
//
// A settings file looks like:
//
//	use_shaders = true
//	backend = "wgpu"
//	shader_dir = "~/.local/share/progsel/shaders"
//	program_dirs = ["~/.local/share/progsel/shaders", "./mods"]
//	program_pattern = "*.prog"
//	watch = true
//
// Paths may start with "~", which expands to the user's home directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is where LoadDefault looks for settings.
const DefaultFile = "~/.config/progsel/settings.toml"

var (
	// ErrNoShaderDir is returned by Validate when shaders are enabled
	// without a shader directory.
	ErrNoShaderDir = errors.New("config: shader_dir is required when use_shaders is set")

	// ErrNegativeCache is returned by Validate for a negative selection_cache.
	ErrNegativeCache = errors.New("config: selection_cache must not be negative")
)

// Settings controls the renderer.
type Settings struct {
	// UseShaders enables programmable rendering. When false the host
	// renders everything through its fallback path.
	UseShaders bool `toml:"use_shaders"`

	// Backend names the device backend ("wgpu", "opengl", "wgsl-check",
	// "null"). Empty selects the best available.
	Backend string `toml:"backend,omitempty"`

	// ShaderDir holds the shader sources.
	ShaderDir string `toml:"shader_dir"`

	// ProgramDirs hold the program descriptors, loaded in order. Later
	// directories override programs of the same name. Empty means
	// ShaderDir.
	ProgramDirs []string `toml:"program_dirs,omitempty"`

	// ProgramPattern and ShaderPattern filter directory listings by file
	// name, e.g. "{skin,eye}*.prog". Empty accepts every file.
	ProgramPattern string `toml:"program_pattern,omitempty"`
	ShaderPattern  string `toml:"shader_pattern,omitempty"`

	// Watch reloads the catalog when files in the directories change.
	Watch bool `toml:"watch"`

	// SelectionCache is the number of memoized selections. Zero disables
	// memoization.
	SelectionCache int `toml:"selection_cache"`

	// ParseWorkers parses descriptor files concurrently. Values below two
	// parse on the rendering thread.
	ParseWorkers int `toml:"parse_workers,omitempty"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		UseShaders:     true,
		ShaderDir:      "shaders",
		SelectionCache: 256,
	}
}

// Load decodes settings from r on top of Default. Unknown keys are
// rejected.
func Load(r io.Reader) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return s, fmt.Errorf("config: %s", strict.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return s, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return s, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

// LoadFile reads, expands and validates the settings at path. Relative
// directories are resolved against the directory holding the file.
func LoadFile(path string) (Settings, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	s, err = s.Expand(filepath.Dir(path))
	if err != nil {
		return s, err
	}
	return s, s.Validate()
}

// LoadDefault loads DefaultFile, falling back to Default when it does not
// exist.
func LoadDefault() (Settings, error) {
	s, err := LoadFile(DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return s, err
}

// Save writes s as TOML.
func (s Settings) Save(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(s)
}

// Expand resolves "~" in every directory and makes relative ones absolute
// against base. An empty base leaves relative directories alone.
func (s Settings) Expand(base string) (Settings, error) {
	expand := func(p string) (string, error) {
		if p == "" {
			return p, nil
		}
		p, err := homedir.Expand(p)
		if err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		if base != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return filepath.Clean(p), nil
	}

	var err error
	if s.ShaderDir, err = expand(s.ShaderDir); err != nil {
		return s, err
	}
	dirs := make([]string, len(s.ProgramDirs))
	for i, d := range s.ProgramDirs {
		if dirs[i], err = expand(d); err != nil {
			return s, err
		}
	}
	s.ProgramDirs = dirs
	return s, nil
}

// Validate reports settings that cannot work.
func (s Settings) Validate() error {
	var errs []error
	if s.UseShaders && s.ShaderDir == "" {
		errs = append(errs, ErrNoShaderDir)
	}
	if s.SelectionCache < 0 {
		errs = append(errs, ErrNegativeCache)
	}
	if _, err := s.ProgramFilter(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ShaderFilter(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Programs returns the program directories, defaulting to ShaderDir.
func (s Settings) Programs() []string {
	if len(s.ProgramDirs) == 0 {
		return []string{s.ShaderDir}
	}
	return s.ProgramDirs
}

// ProgramFilter compiles ProgramPattern. It returns nil for an empty
// pattern.
func (s Settings) ProgramFilter() (glob.Glob, error) {
	return compile("program_pattern", s.ProgramPattern)
}

// ShaderFilter compiles ShaderPattern. It returns nil for an empty
// pattern.
func (s Settings) ShaderFilter() (glob.Glob, error) {
	return compile("shader_pattern", s.ShaderPattern)
}

func compile(key, pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("config: %s %q: %w", key, pattern, err)
	}
	return g, nil
}
