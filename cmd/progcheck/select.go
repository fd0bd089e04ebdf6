// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/progsel"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/selector"
)

func newSelectCmd(f *flags) *cobra.Command {
	var (
		hint    string
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "select SCENE NODE...",
		Short: "Show the program a shape selects",
		Long: "Loads the catalog and the scene (YAML, or gits JSON), then selects a program for the\n" +
			"shape made of the named nodes, primary node first.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			sc, err := loadScene(args[0])
			if err != nil {
				return err
			}
			m, err := sc.mesh(args[1:])
			if err != nil {
				return err
			}
			r, done, err := f.open()
			if err != nil {
				return err
			}
			defer done()

			name, ok := selectFor(r, m, hint)
			if !ok {
				pterm.Info.Println("no program; fallback rendering")
			} else {
				pterm.Info.Println("program:", name)
			}
			if explain {
				renderTable(traceRows(selector.Trace(m.Env(), r.Catalog())))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "preferred program name")
	cmd.Flags().BoolVar(&explain, "explain", false, "show how every program's conditions evaluated")
	return cmd
}

// selectFor sets up and immediately releases the program for shape.
func selectFor(r *progsel.Renderer, shape progsel.Shape, hint string) (string, bool) {
	r.BeginFrame()
	name, ok := r.SetupProgram(shape, hint)
	r.StopProgram()
	return name, ok
}

// traceRows tabulates a selection trace.
func traceRows(cands []selector.Candidate) [][]string {
	rows := [][]string{{"Program", "Match", "Evaluated"}}
	for _, c := range cands {
		rows = append(rows, []string{c.Program.Name, fmt.Sprint(c.Matched), steps(c.Steps)})
	}
	return rows
}

func steps(ss []condition.Step) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = fmt.Sprintf("%s => %t", s.Expr, s.Result)
	}
	return strings.Join(parts, "; ")
}

func newEvalCmd() *cobra.Command {
	var nodes []string
	cmd := &cobra.Command{
		Use:   "eval SCENE EXPR...",
		Short: "Evaluate condition expressions against scene nodes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			sc, err := loadScene(args[0])
			if err != nil {
				return err
			}
			ns, err := sc.nodes(nodes)
			if err != nil {
				return err
			}
			rows := [][]string{{"Expression", "Result"}}
			for _, text := range args[1:] {
				ok, err := evalExpr(condition.Env{View: sc.view, Nodes: ns}, text)
				if err != nil {
					return err
				}
				rows = append(rows, []string{text, fmt.Sprint(ok)})
			}
			renderTable(rows)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&nodes, "node", nil, "node to evaluate on, repeatable, primary first")
	return cmd
}

// evalExpr parses and evaluates one expression. A leading "check" keyword,
// as written in descriptors, is accepted.
func evalExpr(env condition.Env, text string) (bool, error) {
	if kw, rest := condition.SplitKeyword(strings.TrimSpace(text)); kw == "check" {
		text = rest
	}
	e, err := condition.ParseExpr(text, nil)
	if err != nil {
		return false, err
	}
	return e.Eval(env), nil
}
