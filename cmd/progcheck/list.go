// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/progsel/catalog"
)

// errInvalid makes list --strict fail.
var errInvalid = errors.New("catalog has invalid entries")

func newListCmd(f *flags) *cobra.Command {
	var strict, units bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List programs in load order with their status",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			r, done, err := f.open()
			if err != nil {
				return err
			}
			defer done()

			c := r.Catalog()
			renderTable(programRows(c))
			if units {
				renderTable(unitRows(c))
			}
			for _, e := range c.Errors() {
				pterm.Error.Println(e)
			}
			if strict && len(c.Errors()) > 0 {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero if any file failed to load")
	cmd.Flags().BoolVar(&units, "units", false, "also list shader units")
	return cmd
}

func renderTable(rows [][]string) {
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render() //nolint:errcheck
}

// programRows tabulates every program, valid or not.
func programRows(c *catalog.Catalog) [][]string {
	rows := [][]string{{"#", "Program", "Status", "Stages", "TexCoords", "Conditions"}}
	for i, p := range c.Entries() {
		var tcs []string
		for _, tc := range p.TexCoords {
			tcs = append(tcs, fmt.Sprintf("%d:%s", tc.Channel, tc.Semantic))
		}
		conds := ""
		if p.Conditions != nil {
			conds = p.Conditions.String()
		}
		rows = append(rows, []string{
			fmt.Sprint(i),
			p.Name,
			status(p.Valid(), p.Err),
			strings.Join(p.Stages, " "),
			strings.Join(tcs, " "),
			conds,
		})
	}
	return rows
}

// unitRows tabulates shader units by name.
func unitRows(c *catalog.Catalog) [][]string {
	rows := [][]string{{"Unit", "Stage", "Status"}}
	for _, u := range c.Units() {
		rows = append(rows, []string{u.Name, u.Stage.String(), status(u.Valid(), u.Err)})
	}
	return rows
}

func status(valid bool, err error) string {
	switch {
	case valid:
		return "ok"
	case err != nil:
		return firstLine(err.Error())
	default:
		return "released"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
