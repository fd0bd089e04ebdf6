// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command progcheck loads a shader program catalog and reports which
// programs are usable and which one a scene's shapes would select.
//
// Usage:
//
//	progcheck list --shaders ./shaders
//	progcheck select scene.yaml eye shader --shaders ./shaders --explain
//	progcheck eval scene.yaml eye 'Name == "Eye_L"' 'ShaderFlags1 & 0x1'
//	progcheck repl scene.yaml --shaders ./shaders
package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/progsel"
	"github.com/gogpu/progsel/backend"
	_ "github.com/gogpu/progsel/backend/wgpu"
	"github.com/gogpu/progsel/config"
)

// flags shared by every command.
type flags struct {
	config   string
	shaders  string
	programs []string
	backend  string
	pattern  string
	debug    bool
}

func main() {
	initDisplay()
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// initDisplay sets up pterm prefixes.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "progcheck",
		Short:         "Inspect a shader program catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if f.debug {
				progsel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "settings file (default "+config.DefaultFile+")")
	pf.StringVar(&f.shaders, "shaders", "", "shader source directory")
	pf.StringSliceVar(&f.programs, "programs", nil, "program descriptor directories, in priority order")
	pf.StringVar(&f.backend, "backend", "", "device backend (null, wgsl-check, or wgpu when a GPU HAL is linked)")
	pf.StringVar(&f.pattern, "pattern", "", "only load descriptors matching this glob")
	pf.BoolVar(&f.debug, "debug", false, "log at debug level to stderr")

	root.AddCommand(
		newListCmd(f),
		newSelectCmd(f),
		newEvalCmd(),
		newReplCmd(f),
	)
	return root
}

// settings loads the settings file and applies flag overrides.
func (f *flags) settings() (config.Settings, error) {
	var (
		s   config.Settings
		err error
	)
	if f.config != "" {
		s, err = config.LoadFile(f.config)
	} else {
		s, err = config.LoadDefault()
	}
	if err != nil {
		return s, err
	}
	s.UseShaders = true
	s.Watch = false
	if f.shaders != "" {
		s.ShaderDir = f.shaders
	}
	if len(f.programs) > 0 {
		s.ProgramDirs = f.programs
	}
	if f.pattern != "" {
		s.ProgramPattern = f.pattern
	}
	if f.backend != "" {
		s.Backend = f.backend
	}
	if s.Backend == "" {
		s.Backend = backend.BackendNull
	}
	if s, err = s.Expand(""); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// open creates and initializes a renderer for the settings. The returned
// function closes the renderer and the device.
func (f *flags) open() (*progsel.Renderer, func(), error) {
	s, err := f.settings()
	if err != nil {
		return nil, nil, err
	}
	dev, err := backend.Open(s.Backend)
	if err != nil {
		names := backend.Available()
		slices.Sort(names)
		return nil, nil, fmt.Errorf("backend %q: %w (available: %s)", s.Backend, err, strings.Join(names, ", "))
	}
	r := progsel.New(dev, s)
	if !r.Initialize() {
		pterm.Warning.Println("no usable program in", s.ShaderDir)
	}
	return r, func() {
		r.Close()
		dev.Close()
	}, nil
}
