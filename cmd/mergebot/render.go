/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sammyfilly/dt-mergebot/execute"
	"github.com/sammyfilly/dt-mergebot/plan"
)

// newDisplayTable creates a table writer with the formatting used for all
// observability output.
func newDisplayTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func renderActions(w io.Writer, number int, actions []plan.Action) {
	fmt.Fprintf(w, "=== PR #%d planned actions (%d) ===\n", number, len(actions))
	if len(actions) == 0 {
		return
	}
	table := newDisplayTable([]string{"#", "Action", "Detail"}, w)
	for i, a := range actions {
		table.Append([]string{strconv.Itoa(i + 1), a.Kind.String(), oneLine(a.Detail(), 80)})
	}
	table.Render()
}

func renderMutations(w io.Writer, number int, muts []execute.Mutation) {
	fmt.Fprintf(w, "=== PR #%d mutations (%d) ===\n", number, len(muts))
	if len(muts) == 0 {
		return
	}
	table := newDisplayTable([]string{"#", "Mutation", "Input"}, w)
	for i, m := range muts {
		table.Append([]string{strconv.Itoa(i + 1), m.Name, oneLine(fmt.Sprintf("%+v", m.Input), 80)})
	}
	table.Render()
}

// oneLine flattens and truncates a value for single-row table display.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}
