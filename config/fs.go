// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Root opens the file system holding the shader and program directories
// and returns their fs.FS-relative paths. Directories must share a
// volume.
func (s Settings) Root() (fsys fs.FS, shaderDir string, programDirs []string, err error) {
	abs, err := filepath.Abs(s.ShaderDir)
	if err != nil {
		return nil, "", nil, fmt.Errorf("config: %w", err)
	}
	vol := filepath.VolumeName(abs)
	root := vol + string(filepath.Separator)

	rel := func(dir string) (string, error) {
		a, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		if filepath.VolumeName(a) != vol {
			return "", fmt.Errorf("config: %s is not on volume %q", dir, vol)
		}
		r, err := filepath.Rel(root, a)
		if err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return filepath.ToSlash(r), nil
	}

	if shaderDir, err = rel(s.ShaderDir); err != nil {
		return nil, "", nil, err
	}
	for _, d := range s.Programs() {
		r, err := rel(d)
		if err != nil {
			return nil, "", nil, err
		}
		programDirs = append(programDirs, r)
	}
	return os.DirFS(root), shaderDir, programDirs, nil
}

// Dirs returns the absolute directories to watch.
func (s Settings) Dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range append([]string{s.ShaderDir}, s.Programs()...) {
		a, err := filepath.Abs(d)
		if err != nil || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
