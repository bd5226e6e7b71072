package main

import (
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/tgienger/taskmaster/internal/db"
)

// descriptionWidth is the wrap width of descriptions in show output
const descriptionWidth = 60

// labelIndent matches the width of the Label style
const labelIndent = 12

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(db.DateFormat)
}

// describe wraps a description and indents the continuation lines so
// they line up after a label
func describe(s string) string {
	lines := strings.Split(wordwrap.String(s, descriptionWidth), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", labelIndent) + lines[i]
	}
	return strings.Join(lines, "\n")
}
