package publish

import (
	"bytes"
	"fmt"
	"strings"

	"smartshop/internal/grocery"
	"smartshop/internal/model"
)

type RenderOptions struct {
	// Title is the top heading; empty means "Shopping list".
	Title string
	// IncludeCompleted appends a "Completed" section.
	IncludeCompleted bool
}

// Remaining renders the "N items remaining" header line.
func Remaining(n int) string {
	if n == 1 {
		return "1 item remaining"
	}
	return fmt.Sprintf("%d items remaining", n)
}

// RenderListMarkdown renders the active items as a markdown checklist grouped by
// category in the given display order.
func RenderListMarkdown(items []model.Item, order []string, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Shopping list"
	}

	var active, completed []model.Item
	for _, it := range items {
		if it.Completed {
			completed = append(completed, it)
		} else {
			active = append(active, it)
		}
	}

	writeLn("# " + title)
	writeLn("")
	writeLn(Remaining(len(active)))

	for _, g := range grocery.GroupItems(active, order) {
		writeLn("")
		writeLn("## " + g.Label)
		writeLn("")
		for _, it := range g.Items {
			writeLn(checklistLine(it))
		}
	}

	if opt.IncludeCompleted && len(completed) > 0 {
		writeLn("")
		writeLn("## Completed")
		writeLn("")
		for _, it := range completed {
			writeLn(checklistLine(it))
		}
	}
	return buf.String()
}

func checklistLine(it model.Item) string {
	box := "[ ]"
	if it.Completed {
		box = "[x]"
	}
	line := "- " + box + " " + escapeInline(it.Name)
	if sub := strings.TrimSpace(it.Subtitle); sub != "" {
		line += " _(" + escapeInline(sub) + ")_"
	}
	if it.Urgent && !it.Completed {
		line += " **urgent**"
	}
	return line
}

// escapeInline keeps user text from being read as markdown emphasis or links.
func escapeInline(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`")
	return r.Replace(strings.TrimSpace(s))
}
