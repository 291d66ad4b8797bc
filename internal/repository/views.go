package repository

import "prospectflow/internal/model"

// Accounts returns copies of all accounts in insertion order.
func (r *Repository) Accounts() []model.Account {
	out := make([]model.Account, len(r.doc.Accounts))
	for i, a := range r.doc.Accounts {
		out[i] = a.Clone()
	}
	return out
}

// AllProspects returns every prospect tagged with its account, ordered by
// latest-feedback priority.
func (r *Repository) AllProspects() []model.ProspectEntry {
	entries := model.CollectProspects(r.doc.Accounts)
	model.SortByPriority(entries)
	return entries
}

// PendingToDos returns uncompleted to-dos by ascending deadline, with
// account and prospect names resolved. Dangling references are kept and
// flagged so they can still be completed.
func (r *Repository) PendingToDos() []model.ToDoEntry {
	pending := model.PendingToDos(r.doc.ToDos)
	entries := make([]model.ToDoEntry, 0, len(pending))
	for _, t := range pending {
		entry := model.ToDoEntry{ToDo: t}
		ai, pi := r.prospectIndex(t.AccountID, t.ProspectID)
		if ai >= 0 {
			entry.AccountName = r.doc.Accounts[ai].CompanyName
		}
		if ai >= 0 && pi >= 0 {
			entry.ProspectName = r.doc.Accounts[ai].Prospects[pi].FullName
		}
		entry.Orphaned = ai < 0 || pi < 0
		entries = append(entries, entry)
	}
	return entries
}

// PendingToDoCount returns the number of uncompleted to-dos.
func (r *Repository) PendingToDoCount() int {
	n := 0
	for _, t := range r.doc.ToDos {
		if !t.Completed {
			n++
		}
	}
	return n
}

// StatsSummary returns the counters with derived totals.
func (r *Repository) StatsSummary() model.StatsSummary {
	return model.Summarize(r.doc.Stats)
}

// Triggers returns the active stats trigger table.
func (r *Repository) Triggers() []model.StatTrigger {
	return append([]model.StatTrigger(nil), r.triggers...)
}
