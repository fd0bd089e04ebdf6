// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/progsel"
	"github.com/gogpu/progsel/model"
	"github.com/gogpu/progsel/selector"
)

const historyFile = "~/.progcheck_history"

var errUnknownCommand = errors.New("unknown command, try help")

func newReplCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl SCENE",
		Short: "Explore selection interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sc, err := loadScene(args[0])
			if err != nil {
				return err
			}
			r, done, err := f.open()
			if err != nil {
				return err
			}
			defer done()

			history, _ := homedir.Expand(historyFile)
			rl, err := readline.NewEx(&readline.Config{
				Prompt:       "progsel > ",
				HistoryFile:  history,
				AutoComplete: completer(),
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			in := &intp{r: r, scene: sc}
			pterm.Info.Println("Quit with <ctrl>D")
			in.loop(rl)
			return nil
		},
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("nodes"),
		readline.PcItem("hint"),
		readline.PcItem("select"),
		readline.PcItem("explain"),
		readline.PcItem("eval"),
		readline.PcItem("set"),
		readline.PcItem("list"),
		readline.PcItem("reload"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// intp is the REPL state.
type intp struct {
	r     *progsel.Renderer
	scene *scene
	nodes []string
	hint  string
	last  string
}

func (in *intp) loop(rl *readline.Instance) {
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		quit, err := in.execute(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// execute runs one command line.
func (in *intp) execute(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		pterm.Println(helpText)
	case "nodes":
		if _, err := in.scene.nodes(args); err != nil {
			return false, err
		}
		in.nodes = args
	case "hint":
		in.hint = strings.Join(args, " ")
	case "select":
		m, err := in.scene.mesh(in.nodes)
		if err != nil {
			return false, err
		}
		name, ok := selectFor(in.r, m, in.hint)
		in.last = name
		if !ok {
			pterm.Println("no program")
		} else {
			pterm.Println(name)
		}
	case "explain":
		m, err := in.scene.mesh(in.nodes)
		if err != nil {
			return false, err
		}
		renderTable(traceRows(selector.Trace(m.Env(), in.r.Catalog())))
	case "eval":
		m, err := in.scene.mesh(in.nodes)
		if err != nil {
			return false, err
		}
		_, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		ok, err := evalExpr(m.Env(), rest)
		if err != nil {
			return false, err
		}
		pterm.Println(ok)
	case "set":
		if len(args) < 3 {
			return false, errors.New("usage: set NODE ATTR VALUE")
		}
		if err := in.scene.set(args[0], args[1], model.Infer(strings.Join(args[2:], " "))); err != nil {
			return false, err
		}
	case "list":
		renderTable(programRows(in.r.Catalog()))
	case "reload":
		if err := in.r.UpdateShaders(); err != nil {
			return false, err
		}
		pterm.Info.Println(fmt.Sprintf("reloaded, generation %d", in.r.Catalog().Generation()))
	default:
		return false, fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
	return false, nil
}

const helpText = `nodes NAME...         set the shape's nodes, primary first
hint [NAME]           set or clear the preferred program
select                select a program for the shape
explain               show how each program's conditions evaluate
eval EXPR             evaluate a condition on the shape
set NODE ATTR VALUE   change an attribute in the scene
list                  list programs
reload                reload shaders and descriptors
quit                  leave`
