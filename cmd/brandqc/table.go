package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type writer = interface{ Write([]byte) (int, error) }

// truncateName shortens a name to maxLen display columns, ending it with "…"
// when cut.
func truncateName(name string, maxLen int) string {
	if runewidth.StringWidth(name) <= maxLen {
		return name
	}
	return runewidth.Truncate(name, maxLen, "…")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// columnWidth returns the display width of the widest value, bounded to
// [lo, hi].
func columnWidth(header string, values []string, lo, hi int) int {
	w := runewidth.StringWidth(header)
	for _, v := range values {
		w = max(w, runewidth.StringWidth(v))
	}
	return min(max(w, lo), hi)
}
