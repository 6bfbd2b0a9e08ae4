package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type table struct {
	out     io.Writer
	headers []string
	rows    [][]string
}

func newTable(out io.Writer, headers ...string) *table {
	return &table{out: out, headers: headers}
}

func (t *table) Append(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render pads columns to their widest cell. Widths ignore color escapes.
func (t *table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], visibleWidth(cell))
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i < len(widths) && i < len(cells)-1 {
				parts[i] = cell + strings.Repeat(" ", widths[i]-visibleWidth(cell))
			} else {
				parts[i] = cell
			}
		}
		fmt.Fprintln(t.out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.headers))
	for i, h := range t.headers {
		header[i] = bold.Sprint(h)
	}
	printRow(header)
	for _, row := range t.rows {
		printRow(row)
	}
}

func visibleWidth(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}
