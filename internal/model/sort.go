package model

import (
	"sort"
	"time"
)

// DeadlineLayout is the date format used for to-do deadlines.
const DeadlineLayout = "2006-01-02"

// PriorityNoInteraction ranks prospects that were never contacted.
const PriorityNoInteraction = 4

// FeedbackPriority ranks a feedback value for the global prospect list; lower sorts first.
func FeedbackPriority(f Feedback) int {
	switch f {
	case FeedbackQualified:
		return 0
	case FeedbackBookNextMeeting:
		return 1
	case FeedbackSendMoreInfo:
		return 2
	case FeedbackNoAnswer:
		return 3
	case FeedbackNotInterested:
		return 5
	default:
		return 6
	}
}

// Priority ranks the prospect by the feedback of its latest interaction.
func (p Prospect) Priority() int {
	latest, ok := p.LatestInteraction()
	if !ok {
		return PriorityNoInteraction
	}
	return FeedbackPriority(latest.Feedback)
}

// ProspectEntry is a prospect tagged with its owning account.
type ProspectEntry struct {
	AccountID   string
	AccountName string
	Prospect    Prospect
}

// CollectProspects flattens every account's prospects, in account then prospect order.
func CollectProspects(accounts []Account) []ProspectEntry {
	var entries []ProspectEntry
	for _, a := range accounts {
		for _, p := range a.Prospects {
			entries = append(entries, ProspectEntry{
				AccountID:   a.ID,
				AccountName: a.CompanyName,
				Prospect:    p.Clone(),
			})
		}
	}
	return entries
}

// SortByPriority orders entries by prospect priority, keeping enumeration order on ties.
func SortByPriority(entries []ProspectEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Prospect.Priority() < entries[j].Prospect.Priority()
	})
}

// ToDoEntry is a pending to-do with its references resolved for display.
type ToDoEntry struct {
	ToDo         ToDo
	AccountName  string
	ProspectName string
	// Orphaned is set when the referenced account or prospect no longer exists.
	Orphaned bool
}

// DeadlineTime parses the deadline. Unparseable deadlines report false.
func (t ToDo) DeadlineTime(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if d, err := time.ParseInLocation(DeadlineLayout, t.Deadline, loc); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, t.Deadline); err == nil {
		return d.In(loc), true
	}
	return time.Time{}, false
}

// Overdue reports whether the deadline falls before the day containing now.
func (t ToDo) Overdue(now time.Time) bool {
	d, ok := t.DeadlineTime(now.Location())
	if !ok {
		return false
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(startOfDay)
}

// PendingToDos keeps the uncompleted to-dos sorted by ascending deadline.
// Unparseable deadlines sort last; ties keep insertion order.
func PendingToDos(todos []ToDo) []ToDo {
	pending := make([]ToDo, 0, len(todos))
	for _, t := range todos {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		di, iok := pending[i].DeadlineTime(time.UTC)
		dj, jok := pending[j].DeadlineTime(time.UTC)
		switch {
		case iok && jok:
			return di.Before(dj)
		default:
			return iok && !jok
		}
	})
	return pending
}
