// Package reminder implements the hourly reminder engine: a window classifier
// over pending todos and events, a digest formatter, and a scheduler that fans
// the per-user work out over a small worker pool and hands non-empty digests
// to a mail sink.
package reminder

import (
	"sort"
	"time"

	"github.com/eduagenda/eduagenda/utils"
)

// DueSoonWindow is the look-ahead used to flag imminent items.
const DueSoonWindow = 24 * time.Hour

// Item is the classifier's view of a todo or event: identity, display title,
// the relevant timestamp and the completion flag.
type Item struct {
	ID    uint
	Title string
	Due   time.Time
	Done  bool
}

// Classified partitions pending items into the two reminder windows. Items
// outside both windows, completed items and items with a zero timestamp do
// not appear at all.
type Classified struct {
	Overdue []Item
	DueSoon []Item
}

// Classify buckets items against the half-open windows [..., now) and
// [now, now+24h). An item exactly at now is due soon, not overdue; an item
// exactly at now+24h belongs to neither set this tick and will surface on a
// later one. Output is ordered by timestamp ascending with ID as tiebreaker.
func Classify(items []Item, now time.Time) Classified {
	limit := now.Add(DueSoonWindow)
	var c Classified
	for _, it := range items {
		if it.Done {
			continue
		}
		if it.Due.IsZero() {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("reminder: dropping item %d %q with missing timestamp", it.ID, it.Title)
			}
			continue
		}
		switch {
		case it.Due.Before(now):
			c.Overdue = append(c.Overdue, it)
		case it.Due.Before(limit):
			c.DueSoon = append(c.DueSoon, it)
		}
	}
	sortItems(c.Overdue)
	sortItems(c.DueSoon)
	return c
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Due.Equal(items[j].Due) {
			return items[i].Due.Before(items[j].Due)
		}
		return items[i].ID < items[j].ID
	})
}
