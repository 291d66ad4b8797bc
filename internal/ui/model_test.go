package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectflow/internal/config"
	domain "prospectflow/internal/model"
	"prospectflow/internal/navigator"
	"prospectflow/internal/repository"
	"prospectflow/internal/storage"
)

func newTestModel(t *testing.T) (*model, *repository.Repository) {
	t.Helper()
	repo := repository.New(context.Background(), storage.NewMemory(), repository.Options{})
	cfg := &config.Store{Config: config.Data{Name: "Tester", Timezone: "UTC"}}
	m := newModel(navigator.New(repo, nil), repo, cfg, nil)
	m.now = func() time.Time { return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) }
	return m, repo
}

func typeLine(m *model, line string) tea.Cmd {
	for _, r := range line {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func typeLines(m *model, lines ...string) {
	for _, line := range lines {
		typeLine(m, line)
	}
}

func addAccount(m *model, name string) {
	typeLines(m, "add", name, "", "", "", "")
}

func TestResolveCommand(t *testing.T) {
	cases := []struct {
		input string
		id    string
		arg   string
		ok    bool
	}{
		{input: "accounts", id: cmdAccounts, ok: true},
		{input: "  Prospects ", id: cmdProspects, ok: true},
		{input: "to-dos", id: cmdToDos, ok: true},
		{input: "/", id: cmdBack, ok: true},
		{input: "+", id: cmdAdd, ok: true},
		{input: "exit.", id: cmdQuit, ok: true},
		{input: "done 2", id: cmdDone, arg: "2", ok: true},
		{input: "import ~/leads.csv", id: cmdImport, arg: "~/leads.csv", ok: true},
		{input: "Import Leads.CSV", id: cmdImport, arg: "Leads.CSV", ok: true},
		{input: "acme", ok: false},
		{input: "", ok: false},
	}
	for _, tc := range cases {
		id, arg, ok := resolveCommand(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.id, id, tc.input)
		assert.Equal(t, tc.arg, arg, tc.input)
	}
}

func TestResolveSelection(t *testing.T) {
	names := []string{"Acme", "Acme Labs", "Globex", "Initech"}
	ident := func(s string) string { return s }

	got, ok, _ := resolveSelection(names, ident, "2")
	require.True(t, ok)
	assert.Equal(t, "Acme Labs", got)

	got, ok, _ = resolveSelection(names, ident, "acme")
	require.True(t, ok, "exact match wins over ambiguous prefix")
	assert.Equal(t, "Acme", got)

	got, ok, _ = resolveSelection(names, ident, "open glo")
	require.True(t, ok)
	assert.Equal(t, "Globex", got)

	_, ok, _ = resolveSelection(names, ident, "9")
	assert.False(t, ok)

	_, ok, suggestion := resolveSelection(names, ident, "Intech")
	assert.False(t, ok)
	assert.Equal(t, "Initech", suggestion)

	_, ok, suggestion = resolveSelection(names, ident, "zzzzzzzz")
	assert.False(t, ok)
	assert.Empty(t, suggestion)
}

func TestResolveChoice(t *testing.T) {
	f, ok := resolveChoice(domain.Feedbacks, "4")
	require.True(t, ok)
	assert.Equal(t, domain.FeedbackBookNextMeeting, f)

	typ, ok := resolveChoice(domain.InteractionTypes, "email")
	require.True(t, ok)
	assert.Equal(t, domain.TypeEmail, typ)

	_, ok = resolveChoice(domain.InteractionTypes, "fax")
	assert.False(t, ok)
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAddAccountThroughForm(t *testing.T) {
	m, repo := newTestModel(t)

	typeLine(m, "add")
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Add Account")

	typeLine(m, "")
	assert.Equal(t, "This field is required", m.form.err)

	typeLines(m, "Acme", "Manufacturing", "", "Legacy ERP", "")

	assert.Equal(t, modeCommand, m.mode)
	assert.Equal(t, navigator.ViewAccounts, m.screen.View)
	accounts := repo.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "Acme", accounts[0].CompanyName)
	assert.Equal(t, "Manufacturing", accounts[0].Industry)
	assert.Equal(t, "Legacy ERP", accounts[0].PainPoints)
	assert.Equal(t, "Account 'Acme' saved", m.infoMessage)
}

func TestFormBackStepsAndCancels(t *testing.T) {
	m, repo := newTestModel(t)
	typeLines(m, "add", "Acme")
	require.Equal(t, 1, m.form.index)

	typeLine(m, "/")
	assert.Equal(t, 0, m.form.index)
	assert.Equal(t, "Acme", m.input.Value())

	m.input.SetValue("")
	typeLine(m, "/")

	assert.Equal(t, modeCommand, m.mode)
	assert.Equal(t, navigator.ViewAccounts, m.screen.View)
	assert.Empty(t, repo.Accounts())
}

func TestEditAccountPrefillsForm(t *testing.T) {
	m, repo := newTestModel(t)
	addAccount(m, "Acme")
	typeLine(m, "1")
	require.Equal(t, navigator.ViewAccountDetails, m.screen.View)

	typeLine(m, "edit")
	require.Equal(t, modeForm, m.mode)
	assert.True(t, m.form.editing)
	assert.Equal(t, "Acme", m.input.Value())

	m.input.SetValue("")
	typeLines(m, "Acme Corp", "", "", "", "")

	accounts := repo.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "Acme Corp", accounts[0].CompanyName)
}

func TestProspectAndInteractionFlow(t *testing.T) {
	m, repo := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "acme", "add", "Jane Doe", "CTO", "", "", "")
	require.Equal(t, navigator.ViewAccountDetails, m.screen.View)
	assert.Contains(t, m.View(), "Jane Doe, CTO")

	typeLine(m, "jane")
	require.Equal(t, navigator.ViewProspectDetails, m.screen.View)

	typeLine(m, "log")
	require.Equal(t, modeInteraction, m.mode)
	typeLine(m, "fax")
	assert.NotEmpty(t, m.wizard.err)
	typeLines(m, "2", "4", "Demo booked")
	require.Equal(t, wizardDeadline, m.wizard.stage)

	typeLine(m, "next week")
	assert.Equal(t, "Use the format 2006-01-02", m.wizard.err)
	typeLine(m, "2025-01-20")

	assert.Equal(t, modeCommand, m.mode)
	assert.Equal(t, navigator.ViewProspectDetails, m.screen.View)
	require.Len(t, m.screen.Interactions, 1)
	assert.Equal(t, domain.TypeEmail, m.screen.Interactions[0].Type)
	assert.Equal(t, domain.FeedbackBookNextMeeting, m.screen.Interactions[0].Feedback)
	assert.Equal(t, "Demo booked", m.screen.Interactions[0].Notes)
	assert.Equal(t, 1, m.screen.PendingToDos)

	stats := repo.StatsSummary()
	assert.Equal(t, 1, stats.EmailsSent)
	assert.Equal(t, 1, stats.SuccessfulInteractions)
}

func TestWizardSkipsDeadlineWhenNotNeeded(t *testing.T) {
	m, repo := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "1", "add", "Jane", "", "", "", "", "1", "log", "1", "1", "")

	assert.Equal(t, modeCommand, m.mode)
	assert.Equal(t, 0, repo.PendingToDoCount())
	require.Len(t, m.screen.Interactions, 1)
	assert.Equal(t, domain.FeedbackNoAnswer, m.screen.Interactions[0].Feedback)
}

func TestWizardBackAndDiscard(t *testing.T) {
	m, _ := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "1", "add", "Jane", "", "", "", "", "1", "log", "2")
	require.Equal(t, wizardFeedback, m.wizard.stage)

	typeLine(m, "/")
	assert.Equal(t, wizardType, m.wizard.stage)
	assert.Equal(t, "Email", m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeCommand, m.mode)
	assert.Empty(t, m.screen.Interactions)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, repo := newTestModel(t)
	addAccount(m, "Acme")
	typeLine(m, "1")

	typeLine(m, "delete")
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Delete account 'Acme'?")
	typeLine(m, "n")
	assert.Equal(t, "Delete cancelled", m.infoMessage)
	assert.Len(t, repo.Accounts(), 1)

	typeLines(m, "delete", "y")
	assert.Empty(t, repo.Accounts())
	assert.Equal(t, navigator.ViewAccounts, m.screen.View)
	assert.Equal(t, "Deleted 'Acme'", m.infoMessage)
}

func TestDeleteNotOfferedOnLists(t *testing.T) {
	m, _ := newTestModel(t)

	typeLine(m, "delete")

	assert.Equal(t, modeCommand, m.mode)
	assert.Equal(t, "Nothing to delete here", m.errMessage)
}

func TestUnknownChoiceSuggestsClosestName(t *testing.T) {
	m, _ := newTestModel(t)
	addAccount(m, "Globex")

	typeLine(m, "Glovex")

	assert.Equal(t, navigator.ViewAccounts, m.screen.View)
	assert.Equal(t, "Unknown choice 'Glovex'. Did you mean 'Globex'?", m.errMessage)
}

func TestAddNotAvailableOnStats(t *testing.T) {
	m, _ := newTestModel(t)
	typeLine(m, "stats")

	typeLine(m, "add")

	assert.Equal(t, navigator.ViewStats, m.screen.View)
	assert.Equal(t, "'add' is not available here", m.errMessage)
}

func TestBackFromTopLevel(t *testing.T) {
	m, _ := newTestModel(t)

	typeLine(m, "back")

	assert.Equal(t, "Nothing to go back to", m.errMessage)
}

func TestCompleteToDoFromList(t *testing.T) {
	m, repo := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "1", "add", "Jane", "", "", "", "", "1", "log", "2", "3", "", "2025-01-05")
	require.Equal(t, 1, repo.PendingToDoCount())

	typeLine(m, "todos")
	require.Len(t, m.screen.ToDos, 1)
	view := m.View()
	assert.Contains(t, view, "Send More Information")
	assert.Contains(t, view, "overdue 2025-01-05")
	assert.Contains(t, view, "Jane @ Acme")

	typeLine(m, "done 7")
	assert.Equal(t, "Usage: done <number>", m.errMessage)

	typeLine(m, "done 1")
	assert.Equal(t, 0, repo.PendingToDoCount())
	assert.Empty(t, m.screen.ToDos)
	assert.Equal(t, navigator.ViewToDos, m.screen.View)
}

func TestProspectsViewOpensProspectAndReturns(t *testing.T) {
	m, _ := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "1", "add", "Jane", "", "", "", "")

	typeLine(m, "prospects")
	require.Len(t, m.screen.Prospects, 1)
	assert.Contains(t, m.View(), "Not contacted")

	typeLine(m, "1")
	require.Equal(t, navigator.ViewProspectDetails, m.screen.View)
	typeLine(m, "/")
	assert.Equal(t, navigator.ViewProspects, m.screen.View)
}

func TestImportCommand(t *testing.T) {
	m, repo := newTestModel(t)
	path := filepath.Join(t.TempDir(), "accounts.csv")
	csv := "companyName,industry\nAcme,Manufacturing\n,Retail\nGlobex,Energy\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	typeLine(m, "import "+path)

	assert.Equal(t, "Imported 2 account(s), skipped 1", m.infoMessage)
	assert.Equal(t, "row 3: company name required", m.errMessage)
	assert.Len(t, repo.Accounts(), 2)
	assert.Len(t, m.screen.Accounts, 2)
}

func TestImportRequiresPath(t *testing.T) {
	m, _ := newTestModel(t)

	typeLine(m, "import")

	assert.Equal(t, "Provide a CSV path", m.errMessage)
}

func TestNavBarShowsPendingBadge(t *testing.T) {
	m, _ := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "1", "add", "Jane", "", "", "", "", "1", "log", "2", "4", "", "2025-02-01")

	bar := m.viewNavBar()

	assert.Contains(t, bar, "ToDos")
	assert.True(t, strings.Contains(bar, "1"), bar)
}

func TestStatsView(t *testing.T) {
	m, _ := newTestModel(t)
	addAccount(m, "Acme")
	typeLines(m, "1", "add", "Jane", "", "", "", "", "1", "log", "email", "book", "", "")

	typeLine(m, "stats")
	view := m.View()

	assert.Contains(t, view, "Emails sent")
	assert.Contains(t, view, "Total interactions: 1")
	assert.Contains(t, view, "Success rate: 100.00%")
}

func newSettingsModel(t *testing.T) (*model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	cfg.Config.Name = "Tester"
	cfg.Config.Timezone = "Local"
	m, _ := newTestModel(t)
	m.cfg = cfg
	return m, path
}

func TestSettingsEditPersists(t *testing.T) {
	m, path := newSettingsModel(t)

	typeLine(m, "settings")
	require.Equal(t, modeSettings, m.mode)
	typeLines(m, "1", "Dana", "2", "UTC")

	assert.Equal(t, "Timezone updated", m.infoMessage)
	assert.Equal(t, settingsViewing, m.settings.stage)
	assert.Equal(t, time.UTC, m.location())

	reloaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Dana", reloaded.Config.Name)
	assert.Equal(t, "UTC", reloaded.Config.Timezone)

	typeLine(m, "3")
	assert.Equal(t, modeCommand, m.mode)
	assert.Contains(t, m.viewNavBar(), "Dana")
}

func TestSettingsRejectsUnknownTimezone(t *testing.T) {
	m, path := newSettingsModel(t)

	typeLines(m, "settings", "2", "Mars/Olympus")

	assert.Equal(t, settingsEditingTimezone, m.settings.stage)
	assert.Equal(t, "Unknown timezone 'Mars/Olympus'", m.settings.err)
	assert.Equal(t, "Local", m.cfg.Config.Timezone)

	reloaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.NotEqual(t, "Mars/Olympus", reloaded.Config.Timezone)

	typeLine(m, "/")
	assert.Equal(t, settingsViewing, m.settings.stage)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeCommand, m.mode)
}

func TestSettingsShowsTriggerTable(t *testing.T) {
	m, _ := newSettingsModel(t)
	typeLine(m, "settings")

	view := m.View()

	assert.Contains(t, view, "Stats triggers")
	assert.Contains(t, view, string(domain.FeedbackBookNextMeeting))
	assert.Contains(t, view, "Tester")
}

func TestSaveFailureKeepsPreviousName(t *testing.T) {
	m, path := newSettingsModel(t)
	dir := filepath.Dir(path)
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))

	typeLines(m, "settings", "1", "Dana")

	assert.Equal(t, "Tester", m.cfg.Config.Name)
	assert.NotEmpty(t, m.settings.err)
	assert.Equal(t, settingsEditingName, m.settings.stage)
}

func TestListedNameWinsOverCommandWord(t *testing.T) {
	m, _ := newTestModel(t)
	addAccount(m, "Stats")
	addAccount(m, "New")

	typeLine(m, "stats")
	require.Equal(t, navigator.ViewAccountDetails, m.screen.View)
	assert.Equal(t, "Stats", m.screen.Account.CompanyName)

	typeLine(m, "/")
	typeLine(m, "new")
	require.Equal(t, navigator.ViewAccountDetails, m.screen.View)
	assert.Equal(t, "New", m.screen.Account.CompanyName)

	typeLine(m, "stats")
	assert.Equal(t, navigator.ViewStats, m.screen.View, "command words still work where no item carries the name")
}
