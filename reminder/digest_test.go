package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/eduagenda/eduagenda/models"
)

func TestBuildDigestBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	todos := []models.Todo{
		{ID: 1, Text: "late homework", DueAt: now.Add(-time.Hour)},
		{ID: 2, Text: "tonight reading", DueAt: now.Add(6 * time.Hour)},
		{ID: 3, Text: "done already", DueAt: now.Add(-time.Hour), Done: true},
	}
	events := []models.Event{
		{ID: 10, Title: "missed lecture", OccursAt: now.Add(-2 * time.Hour)},
		{ID: 11, Title: "study group", OccursAt: now.Add(3 * time.Hour)},
	}

	d := BuildDigest(todos, events, now)
	if len(d.OverdueTodos) != 1 || d.OverdueTodos[0].ID != 1 {
		t.Errorf("OverdueTodos = %+v, want todo 1", d.OverdueTodos)
	}
	if len(d.DueSoonTodos) != 1 || d.DueSoonTodos[0].ID != 2 {
		t.Errorf("DueSoonTodos = %+v, want todo 2", d.DueSoonTodos)
	}
	if len(d.OverdueEvents) != 1 || d.OverdueEvents[0].ID != 10 {
		t.Errorf("OverdueEvents = %+v, want event 10", d.OverdueEvents)
	}
	if len(d.DueSoonEvents) != 1 || d.DueSoonEvents[0].ID != 11 {
		t.Errorf("DueSoonEvents = %+v, want event 11", d.DueSoonEvents)
	}
	if d.Empty() {
		t.Error("digest with items reported Empty")
	}
}

func TestEmptyDigestRendersNothing(t *testing.T) {
	d := BuildDigest(nil, nil, time.Now())
	if !d.Empty() {
		t.Error("digest without items not Empty")
	}
	text, htmlBody := d.Render()
	if text != "" || htmlBody != "" {
		t.Errorf("Render() = (%q, %q), want empty strings", text, htmlBody)
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	todos := []models.Todo{{ID: 1, Text: "late homework", DueAt: now.Add(-time.Hour)}}

	d := BuildDigest(todos, nil, now)
	text, htmlBody := d.Render()
	if !strings.Contains(text, "Overdue Todos:") {
		t.Errorf("text missing overdue section:\n%s", text)
	}
	if strings.Contains(text, "Due Soon") || strings.Contains(text, "Events") {
		t.Errorf("text contains empty sections:\n%s", text)
	}
	if !strings.Contains(htmlBody, "late homework") {
		t.Errorf("html missing item title:\n%s", htmlBody)
	}
}

func TestRenderDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	todos := []models.Todo{
		{ID: 2, Text: "b", DueAt: now.Add(2 * time.Hour)},
		{ID: 1, Text: "a", DueAt: now.Add(time.Hour)},
	}
	reversed := []models.Todo{todos[1], todos[0]}

	t1, h1 := BuildDigest(todos, nil, now).Render()
	t2, h2 := BuildDigest(reversed, nil, now).Render()
	if t1 != t2 || h1 != h2 {
		t.Error("render output depends on input order")
	}
}

func TestRenderEscapesHTMLInTitles(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	todos := []models.Todo{{ID: 1, Text: "<script>alert(1)</script>", DueAt: now.Add(time.Hour)}}

	_, htmlBody := BuildDigest(todos, nil, now).Render()
	if strings.Contains(htmlBody, "<script>") {
		t.Errorf("html contains unescaped title:\n%s", htmlBody)
	}
	if !strings.Contains(htmlBody, "&lt;script&gt;") {
		t.Errorf("html missing escaped title:\n%s", htmlBody)
	}
}

func TestRenderFormatsTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	todos := []models.Todo{{ID: 1, Text: "lab report", DueAt: time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)}}

	text, _ := BuildDigest(todos, nil, now).Render()
	if !strings.Contains(text, "Tue, 10 Mar 2026 17:30") {
		t.Errorf("text missing formatted due time:\n%s", text)
	}
}
