package report

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/color"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

const (
	valueDigits   = 2
	durationUnits = 2
)

// RenderTable renders sum as a bordered table followed by a totals line.
// An empty summary renders as an empty string.
func RenderTable(sum stats.Summary, theme color.Theme) string {
	if len(sum.Rows) == 0 {
		return ""
	}

	rows := make([][]string, 0, len(sum.Rows))
	total := 0.0

	for _, r := range sum.Rows {
		total += r.Mean * float64(r.Count)

		rows = append(rows, []string{
			theme.Name.Render(r.Name),
			theme.Category.Render(categoryName(r.Category)),
			humanize.Comma(int64(r.Count)),
			theme.Value.Render(formatNanos(r.Mean)),
			theme.Value.Render(formatNanos(r.Geomean)),
		})
	}

	out := renderTable([]string{"Hostcall", "Category", "Count", "Mean", "Geomean"}, rows, []int{2, 3, 4}, theme)

	footer := humanize.Comma(int64(sum.Count())) + " samples across " +
		strconv.Itoa(len(sum.Rows)) + " hostcalls, " +
		durafmt.Parse(time.Duration(total)).LimitFirstN(durationUnits).String() + " in hostcalls"

	if sum.Anomalies > 0 {
		footer += ", " + theme.Warning.Render(strconv.Itoa(sum.Anomalies)+" clock anomalies")
	}

	return out + "\n" + footer
}

// RenderOps renders the hostcall registry.
func RenderOps(theme color.Theme) string {
	ops := hostcall.Ops()
	rows := make([][]string, 0, len(ops))

	for _, op := range ops {
		rows = append(rows, []string{
			strconv.Itoa(int(op)),
			theme.Name.Render(op.String()),
			theme.Category.Render(op.Category().String()),
		})
	}

	return renderTable([]string{"#", "Hostcall", "Category"}, rows, []int{0}, theme)
}

// renderTable right-aligns the numeric columns by padding, so cells are rendered
// with trimming disabled.
func renderTable(headers []string, rows [][]string, numeric []int, theme color.Theme) string {
	widths := make([]int, len(headers))

	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(ansi.Strip(cell)))
		}
	}

	for _, row := range rows {
		for _, col := range numeric {
			row[col] = padLeft(row[col], widths[col])
		}
	}

	for i, h := range headers {
		headers[i] = theme.Header.Render(h)
	}

	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Build()),
	)

	t.Header(headers)

	for _, row := range rows {
		_ = t.Append(row)
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

// formatNanos renders a duration in nanoseconds with thousands separators.
func formatNanos(ns float64) string {
	if math.IsNaN(ns) || math.IsInf(ns, 0) || ns > 1e15 {
		return FormatFloat(ns) + " ns"
	}

	return humanize.CommafWithDigits(ns, valueDigits) + " ns"
}

func categoryName(c hostcall.Category) string {
	if !c.IsACategory() {
		return "-"
	}

	return c.String()
}

// padLeft left-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padLeft(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return strings.Repeat(" ", w-visible) + s
}

// dimBorders applies the muted theme style to the box-drawing characters.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}
