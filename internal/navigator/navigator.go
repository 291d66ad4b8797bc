// Package navigator implements the view state machine. It holds the selected
// account and prospect as transition context, decides back targets and the
// primary action, and turns presenter intents into repository calls.
package navigator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"prospectflow/internal/model"
)

// View names a screen.
type View int

const (
	ViewAccounts View = iota
	ViewAddAccount
	ViewAccountDetails
	ViewProspects
	ViewAddProspect
	ViewProspectDetails
	ViewToDos
	ViewStats
)

var viewNames = map[View]string{
	ViewAccounts:        "Accounts",
	ViewAddAccount:      "AddAccount",
	ViewAccountDetails:  "AccountDetails",
	ViewProspects:       "Prospects",
	ViewAddProspect:     "AddProspect",
	ViewProspectDetails: "ProspectDetails",
	ViewToDos:           "ToDos",
	ViewStats:           "Stats",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// TopLevel reports whether the view is reachable from the navigation bar.
func (v View) TopLevel() bool {
	switch v {
	case ViewAccounts, ViewProspects, ViewToDos, ViewStats:
		return true
	}
	return false
}

// AddAction is the primary "add" action offered by a view.
type AddAction int

const (
	AddNone AddAction = iota
	AddAccount
	AddProspect
)

// ErrTransitionNotAllowed is returned when an intent is issued from a view
// that does not offer it. State is left unchanged.
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// Store is the repository surface the navigator reads and mutates.
type Store interface {
	Accounts() []model.Account
	Account(id string) (model.Account, bool)
	Prospect(accountID, prospectID string) (model.Prospect, bool)
	AllProspects() []model.ProspectEntry
	PendingToDos() []model.ToDoEntry
	PendingToDoCount() int
	StatsSummary() model.StatsSummary

	SaveAccount(ctx context.Context, fields model.AccountFields) model.Account
	DeleteAccount(ctx context.Context, id string)
	SaveProspect(ctx context.Context, accountID string, fields model.ProspectFields) (model.Prospect, bool)
	DeleteProspect(ctx context.Context, accountID, prospectID string)
	AddInteraction(ctx context.Context, accountID, prospectID string, fields model.InteractionFields, todo *model.ToDo) (model.Interaction, bool)
	CompleteToDo(ctx context.Context, id string) bool
}

// Navigator is the view state machine. The selected ids persist until
// replaced, so edit and add-child actions reuse the last selected parent.
type Navigator struct {
	store  Store
	logger *zap.Logger

	view               View
	selectedAccountID  string
	selectedProspectID string
	// prospectOrigin is the view active just before ProspectDetails was entered.
	prospectOrigin View
	editing        bool
}

// New returns a navigator positioned on the accounts list.
func New(store Store, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		store:          store,
		logger:         logger,
		view:           ViewAccounts,
		prospectOrigin: ViewAccountDetails,
	}
}

// View returns the current view.
func (n *Navigator) View() View { return n.view }

// SelectedAccountID returns the account transition context.
func (n *Navigator) SelectedAccountID() string { return n.selectedAccountID }

// SelectedProspectID returns the prospect transition context.
func (n *Navigator) SelectedProspectID() string { return n.selectedProspectID }

// ProspectOrigin returns the view ProspectDetails was entered from.
func (n *Navigator) ProspectOrigin() View { return n.prospectOrigin }

// Editing reports whether the current form edits an existing entity.
func (n *Navigator) Editing() bool { return n.editing }

// BackTarget returns where Back leads from the current view.
func (n *Navigator) BackTarget() (View, bool) {
	switch n.view {
	case ViewAddAccount, ViewAccountDetails:
		return ViewAccounts, true
	case ViewAddProspect:
		return ViewAccountDetails, true
	case ViewProspectDetails:
		if n.prospectOrigin == ViewProspects {
			return ViewProspects, true
		}
		return ViewAccountDetails, true
	}
	return n.view, false
}

// AddAction returns the primary action available in the current view.
func (n *Navigator) AddAction() AddAction {
	switch n.view {
	case ViewAccounts:
		return AddAccount
	case ViewAccountDetails:
		return AddProspect
	}
	return AddNone
}

func (n *Navigator) require(intent string, views ...View) error {
	for _, v := range views {
		if n.view == v {
			return nil
		}
	}
	return fmt.Errorf("%s from %s: %w", intent, n.view, ErrTransitionNotAllowed)
}

func (n *Navigator) setView(v View) {
	if v != n.view {
		n.logger.Debug("Navigate", zap.Stringer("from", n.view), zap.Stringer("to", v))
	}
	n.view = v
	if v != ViewAddAccount && v != ViewAddProspect {
		n.editing = false
	}
}

// enterAccountDetails shows the selected account, or falls back to the
// accounts list when it no longer resolves.
func (n *Navigator) enterAccountDetails() {
	if _, ok := n.store.Account(n.selectedAccountID); !ok {
		n.logger.Debug("Selected account not found, showing accounts",
			zap.String("account_id", n.selectedAccountID))
		n.setView(ViewAccounts)
		return
	}
	n.setView(ViewAccountDetails)
}

// enterProspectDetails shows the selected prospect, or falls back to the
// list it was reached from.
func (n *Navigator) enterProspectDetails() {
	if n.view != ViewProspectDetails {
		n.prospectOrigin = n.view
	}
	if _, ok := n.store.Prospect(n.selectedAccountID, n.selectedProspectID); !ok {
		n.logger.Debug("Selected prospect not found, falling back",
			zap.String("account_id", n.selectedAccountID),
			zap.String("prospect_id", n.selectedProspectID),
			zap.Stringer("origin", n.prospectOrigin))
		n.fallbackFromProspect()
		return
	}
	n.setView(ViewProspectDetails)
}

func (n *Navigator) fallbackFromProspect() {
	if n.prospectOrigin == ViewProspects {
		n.setView(ViewProspects)
		return
	}
	n.enterAccountDetails()
}

// Navigate switches to a navigation-bar view.
func (n *Navigator) Navigate(v View) error {
	if !v.TopLevel() {
		return fmt.Errorf("navigate to %s: %w", v, ErrTransitionNotAllowed)
	}
	n.setView(v)
	return nil
}

// SelectAccount opens the account's details.
func (n *Navigator) SelectAccount(accountID string) {
	n.selectedAccountID = accountID
	n.enterAccountDetails()
}

// SelectProspect opens a prospect of the selected account.
func (n *Navigator) SelectProspect(prospectID string) error {
	if err := n.require("select prospect", ViewAccountDetails); err != nil {
		return err
	}
	n.selectedProspectID = prospectID
	n.enterProspectDetails()
	return nil
}

// SelectListedProspect opens a prospect from the global prospects list.
func (n *Navigator) SelectListedProspect(accountID, prospectID string) error {
	if err := n.require("select listed prospect", ViewProspects); err != nil {
		return err
	}
	n.selectedAccountID = accountID
	n.selectedProspectID = prospectID
	n.enterProspectDetails()
	return nil
}

// Add performs the current view's primary action.
func (n *Navigator) Add() error {
	switch n.AddAction() {
	case AddAccount:
		return n.AddAccount()
	case AddProspect:
		return n.AddProspect()
	}
	return fmt.Errorf("add from %s: %w", n.view, ErrTransitionNotAllowed)
}

// AddAccount opens an empty account form.
func (n *Navigator) AddAccount() error {
	if err := n.require("add account", ViewAccounts); err != nil {
		return err
	}
	n.setView(ViewAddAccount)
	n.editing = false
	return nil
}

// EditAccount opens the account form for the selected account.
func (n *Navigator) EditAccount() error {
	if err := n.require("edit account", ViewAccountDetails); err != nil {
		return err
	}
	n.setView(ViewAddAccount)
	n.editing = true
	return nil
}

// SaveAccount submits the account form and returns to the accounts list.
// When the form was opened for editing, the selected account id is used.
func (n *Navigator) SaveAccount(ctx context.Context, fields model.AccountFields) model.Account {
	if n.view == ViewAddAccount && n.editing && fields.ID == "" {
		fields.ID = n.selectedAccountID
	}
	account := n.store.SaveAccount(ctx, fields)
	n.setView(ViewAccounts)
	return account
}

// DeleteAccount deletes the selected account. Confirmation is the
// presenter's job.
func (n *Navigator) DeleteAccount(ctx context.Context) error {
	if err := n.require("delete account", ViewAccountDetails); err != nil {
		return err
	}
	n.store.DeleteAccount(ctx, n.selectedAccountID)
	n.setView(ViewAccounts)
	return nil
}

// AddProspect opens an empty prospect form under the selected account.
func (n *Navigator) AddProspect() error {
	if err := n.require("add prospect", ViewAccountDetails); err != nil {
		return err
	}
	n.setView(ViewAddProspect)
	n.editing = false
	return nil
}

// EditProspect opens the prospect form for the selected prospect.
func (n *Navigator) EditProspect() error {
	if err := n.require("edit prospect", ViewProspectDetails); err != nil {
		return err
	}
	n.setView(ViewAddProspect)
	n.editing = true
	return nil
}

// SaveProspect submits the prospect form under the selected account and
// returns to its details.
func (n *Navigator) SaveProspect(ctx context.Context, fields model.ProspectFields) (model.Prospect, bool) {
	if n.view == ViewAddProspect && n.editing && fields.ID == "" {
		fields.ID = n.selectedProspectID
	}
	prospect, ok := n.store.SaveProspect(ctx, n.selectedAccountID, fields)
	n.enterAccountDetails()
	return prospect, ok
}

// DeleteProspect deletes the selected prospect and returns to its account.
func (n *Navigator) DeleteProspect(ctx context.Context) error {
	if err := n.require("delete prospect", ViewProspectDetails); err != nil {
		return err
	}
	n.store.DeleteProspect(ctx, n.selectedAccountID, n.selectedProspectID)
	n.enterAccountDetails()
	return nil
}

// LogInteraction records an interaction for the selected prospect. A
// non-empty deadline also creates a to-do described by the feedback.
func (n *Navigator) LogInteraction(ctx context.Context, fields model.InteractionFields, deadline string) error {
	if err := n.require("log interaction", ViewProspectDetails); err != nil {
		return err
	}
	var todo *model.ToDo
	if deadline != "" {
		todo = &model.ToDo{
			Description: string(fields.Feedback),
			Deadline:    deadline,
			AccountID:   n.selectedAccountID,
			ProspectID:  n.selectedProspectID,
		}
	}
	n.store.AddInteraction(ctx, n.selectedAccountID, n.selectedProspectID, fields, todo)
	n.enterProspectDetails()
	return nil
}

// CompleteToDo marks a to-do done and stays on the to-do list.
func (n *Navigator) CompleteToDo(ctx context.Context, id string) error {
	if err := n.require("complete to-do", ViewToDos); err != nil {
		return err
	}
	n.store.CompleteToDo(ctx, id)
	n.setView(ViewToDos)
	return nil
}

// Back moves to the current view's back target.
func (n *Navigator) Back() error {
	target, ok := n.BackTarget()
	if !ok {
		return fmt.Errorf("back from %s: %w", n.view, ErrTransitionNotAllowed)
	}
	switch target {
	case ViewAccountDetails:
		n.enterAccountDetails()
	default:
		n.setView(target)
	}
	return nil
}
