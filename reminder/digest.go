package reminder

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/eduagenda/eduagenda/models"
)

// Subject is the fixed subject line of every reminder mail.
const Subject = "EduAgenda: Task & Event Reminders"

// Digest is the per-user, per-tick bundle of classified items. It lives only
// for the duration of one tick's processing of one user and is never stored.
type Digest struct {
	OverdueTodos  []Item
	DueSoonTodos  []Item
	OverdueEvents []Item
	DueSoonEvents []Item
}

// BuildDigest classifies a user's pending todos and events against now.
func BuildDigest(todos []models.Todo, events []models.Event, now time.Time) Digest {
	ti := make([]Item, 0, len(todos))
	for _, t := range todos {
		ti = append(ti, Item{ID: t.ID, Title: t.Text, Due: t.DueAt, Done: t.Done})
	}
	ei := make([]Item, 0, len(events))
	for _, e := range events {
		ei = append(ei, Item{ID: e.ID, Title: e.Title, Due: e.OccursAt, Done: e.IsCompleted})
	}
	ct := Classify(ti, now)
	ce := Classify(ei, now)
	return Digest{
		OverdueTodos:  ct.Overdue,
		DueSoonTodos:  ct.DueSoon,
		OverdueEvents: ce.Overdue,
		DueSoonEvents: ce.DueSoon,
	}
}

// Empty reports whether the digest holds no items at all. Empty digests must
// never produce a send.
func (d Digest) Empty() bool {
	return len(d.OverdueTodos) == 0 && len(d.DueSoonTodos) == 0 &&
		len(d.OverdueEvents) == 0 && len(d.DueSoonEvents) == 0
}

const timeLayout = "Mon, 02 Jan 2006 15:04"

type section struct {
	heading string
	prefix  string // "was due", "due", "was on", "on"
	color   string
	items   []Item
}

// Render produces the deterministic plain-text and HTML bodies for the mail.
// Sections with no items are omitted entirely.
func (d Digest) Render() (text string, htmlBody string) {
	sections := []section{
		{"Overdue Todos", "was due", "#d32f2f", d.OverdueTodos},
		{"Todos Due Soon (next 24h)", "due", "#fbc02d", d.DueSoonTodos},
		{"Overdue Events", "was on", "#d32f2f", d.OverdueEvents},
		{"Events Coming Up (next 24h)", "on", "#388e3c", d.DueSoonEvents},
	}

	var tb strings.Builder
	var hb strings.Builder
	hb.WriteString(`<div style="font-family: Arial, sans-serif; color: #222;">`)
	hb.WriteString(`<h2 style="color: #2a7ae2;">` + Subject + `</h2>`)

	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		tb.WriteString(s.heading + ":\n")
		hb.WriteString(fmt.Sprintf(`<h3 style='color: %s;'>%s</h3><ul>`, s.color, s.heading))
		for _, it := range s.items {
			when := it.Due.Format(timeLayout)
			tb.WriteString(fmt.Sprintf("- %s (%s %s)\n", it.Title, s.prefix, when))
			hb.WriteString(fmt.Sprintf(`<li><b>%s</b> <span style='color:%s;'>(%s %s)</span></li>`,
				html.EscapeString(it.Title), s.color, s.prefix, when))
		}
		tb.WriteString("\n")
		hb.WriteString("</ul>")
	}

	if tb.Len() == 0 {
		return "", ""
	}

	hb.WriteString(`<hr style='margin:32px 0 8px 0;'>`)
	hb.WriteString(`<div style='font-size:12px;color:#888;'>This is an automated reminder from your EduAgenda.</div></div>`)
	return tb.String(), hb.String()
}
