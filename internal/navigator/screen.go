package navigator

import "prospectflow/internal/model"

// Screen is the read-only view model for the current view. Only the fields
// relevant to View are populated.
type Screen struct {
	View         View
	Back         View
	HasBack      bool
	Add          AddAction
	PendingToDos int
	Editing      bool

	Accounts     []model.Account
	Account      *model.Account
	Prospect     *model.Prospect
	Interactions []model.Interaction
	Prospects    []model.ProspectEntry
	ToDos        []model.ToDoEntry
	Stats        model.StatsSummary
}

// Screen builds the view model from fresh repository reads. Detail views
// whose context no longer resolves fall back to their ancestor list first.
func (n *Navigator) Screen() Screen {
	n.revalidate()

	s := Screen{
		View:         n.view,
		Add:          n.AddAction(),
		PendingToDos: n.store.PendingToDoCount(),
		Editing:      n.editing,
	}
	s.Back, s.HasBack = n.BackTarget()

	switch n.view {
	case ViewAccounts:
		s.Accounts = n.store.Accounts()
	case ViewAccountDetails:
		if a, ok := n.store.Account(n.selectedAccountID); ok {
			s.Account = &a
		}
	case ViewAddAccount:
		if n.editing {
			if a, ok := n.store.Account(n.selectedAccountID); ok {
				s.Account = &a
			}
		}
	case ViewAddProspect:
		if a, ok := n.store.Account(n.selectedAccountID); ok {
			s.Account = &a
		}
		if n.editing {
			if p, ok := n.store.Prospect(n.selectedAccountID, n.selectedProspectID); ok {
				s.Prospect = &p
			}
		}
	case ViewProspectDetails:
		if a, ok := n.store.Account(n.selectedAccountID); ok {
			s.Account = &a
		}
		if p, ok := n.store.Prospect(n.selectedAccountID, n.selectedProspectID); ok {
			s.Prospect = &p
			s.Interactions = p.InteractionsNewestFirst()
		}
	case ViewProspects:
		s.Prospects = n.store.AllProspects()
	case ViewToDos:
		s.ToDos = n.store.PendingToDos()
	case ViewStats:
		s.Stats = n.store.StatsSummary()
	}
	return s
}

func (n *Navigator) revalidate() {
	switch n.view {
	case ViewAccountDetails:
		n.enterAccountDetails()
	case ViewProspectDetails:
		if _, ok := n.store.Prospect(n.selectedAccountID, n.selectedProspectID); !ok {
			n.fallbackFromProspect()
		}
	case ViewAddProspect:
		if _, ok := n.store.Account(n.selectedAccountID); !ok {
			n.setView(ViewAccounts)
		}
	}
}
