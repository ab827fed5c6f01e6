package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/stwalsh4118/plotpilot/api/internal/aggregate"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

func newTable(w io.Writer, rightAligned ...int) *tablewriter.Table {
	cfg := tablewriter.Config{}
	if len(rightAligned) > 0 {
		align := make([]tw.Align, rightAligned[len(rightAligned)-1]+1)
		for i := range align {
			align[i] = tw.Skip
		}
		for _, col := range rightAligned {
			align[col] = tw.AlignRight
		}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}
	return tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
}

func appendRow(table *tablewriter.Table, cells ...string) error {
	row := make([]any, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return table.Append(row...)
}

func renderStats(w io.Writer, stats *aggregate.Stats) error {
	table := newTable(w, 1)
	table.Header("Status", "Plots")
	rows := [][]string{
		{"Occupied", strconv.Itoa(stats.Occupied)},
		{"Available", strconv.Itoa(stats.Available)},
		{"Reserved", strconv.Itoa(stats.Reserved)},
		{"Total", strconv.Itoa(stats.Total)},
	}
	for _, row := range rows {
		if err := appendRow(table, row...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(stats.BurialTypes) == 0 {
		return nil
	}
	types := make([]string, 0, len(stats.BurialTypes))
	for t := range stats.BurialTypes {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Fprintln(w)
	table = newTable(w, 1)
	table.Header("Burial Type", "Count")
	for _, t := range types {
		if err := appendRow(table, t, strconv.Itoa(stats.BurialTypes[t])); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderSections(w io.Writer, rows []aggregate.SectionStat) error {
	table := newTable(w, 1, 2, 3)
	table.Header("Section", "Total", "Occupied", "Rate")
	for _, s := range rows {
		if err := appendRow(table,
			s.DisplayName,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Occupied),
			fmt.Sprintf("%.1f%%", s.Rate*100),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderStyles(w io.Writer, styles *services.MapStyles) error {
	fmt.Fprintf(w, "mode %s, years %d-%d\n", styles.Mode, styles.Range.From, styles.Range.To)

	table := newTable(w)
	table.Header("Plot", "Fill", "Stroke", "Visible", "Tooltip")
	for _, s := range styles.Styles {
		if err := appendRow(table,
			s.ID,
			s.Style.FillColor,
			s.Style.StrokeColor,
			strconv.FormatBool(s.Visible),
			s.Tooltip,
		); err != nil {
			return err
		}
	}
	return table.Render()
}
