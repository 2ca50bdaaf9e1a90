package view

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText renders the page for a terminal: one row per item and the two stats lines.
func WriteText(w io.Writer, p Page) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch {
	case p.Empty():
		fmt.Fprintln(tw, "Записей нет")
	case p.Layout == LayoutSplit:
		writeSection(tw, "Смены", p.Shifts)
		fmt.Fprintln(tw)
		writeSection(tw, "Песни", p.Songs)
	default:
		writeRows(tw, p.Items)
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Всего заработано:\t%s\n", p.Stats.Lifetime)
	fmt.Fprintf(tw, "Текущий баланс:\t%s\n", p.Stats.Balance)
	return tw.Flush()
}

func writeSection(w io.Writer, title string, items []Item) {
	fmt.Fprintf(w, "%s\n", title)
	if len(items) == 0 {
		fmt.Fprintln(w, "  —")
		return
	}
	writeRows(w, items)
}

func writeRows(w io.Writer, items []Item) {
	for _, it := range items {
		paid := ""
		if it.Paid {
			paid = "✓"
		}
		fmt.Fprintf(w, "#%d\t%s\t%s\t%s\t%s\n", it.ID, it.Title, it.Subtitle, it.Badge, paid)
	}
}
