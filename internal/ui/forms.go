package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	domain "prospectflow/internal/model"
	"prospectflow/internal/navigator"
)

// ENTITY FORM

type entityForm struct {
	kind    navigator.View
	index   int
	fields  []formField
	err     string
	editing bool
	parent  string
}

type formField struct {
	label    string
	value    string
	required bool
}

func newEntityForm(s navigator.Screen) entityForm {
	form := entityForm{kind: s.View, editing: s.Editing}
	switch s.View {
	case navigator.ViewAddProspect:
		var existing domain.ProspectFields
		if s.Prospect != nil {
			existing = domain.ProspectFieldsOf(*s.Prospect)
		}
		if s.Account != nil {
			form.parent = s.Account.CompanyName
		}
		form.fields = []formField{
			{label: "Full name", value: existing.FullName, required: true},
			{label: "Position", value: existing.Position},
			{label: "Contact info", value: existing.ContactInfo},
			{label: "LinkedIn profile", value: existing.LinkedInProfile},
			{label: "Personality", value: existing.Personality},
		}
	default:
		var existing domain.AccountFields
		if s.Account != nil {
			existing = domain.FieldsOf(*s.Account)
		}
		form.fields = []formField{
			{label: "Company name", value: existing.CompanyName, required: true},
			{label: "Industry", value: existing.Industry},
			{label: "Company info", value: existing.CompanyInfo},
			{label: "Pain points", value: existing.PainPoints},
			{label: "Impact", value: existing.Impact},
		}
	}
	return form
}

func (f entityForm) current() formField {
	return f.fields[f.index]
}

func (f entityForm) accountFields() domain.AccountFields {
	return domain.AccountFields{
		CompanyName: f.fields[0].value,
		Industry:    f.fields[1].value,
		CompanyInfo: f.fields[2].value,
		PainPoints:  f.fields[3].value,
		Impact:      f.fields[4].value,
	}
}

func (f entityForm) prospectFields() domain.ProspectFields {
	return domain.ProspectFields{
		FullName:        f.fields[0].value,
		Position:        f.fields[1].value,
		ContactInfo:     f.fields[2].value,
		LinkedInProfile: f.fields[3].value,
		Personality:     f.fields[4].value,
	}
}

func (m *model) updateForm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if isExitCommand(value) {
			cmds = append(cmds, m.cancelForm())
			return batchCmds(cmds)
		}
		if isBackCommand(value) {
			if m.form.index == 0 {
				cmds = append(cmds, m.cancelForm())
				return batchCmds(cmds)
			}
			m.form.index--
			m.form.err = ""
			cmds = append(cmds, m.setMenuInput(m.form.current().label, 256, m.form.current().value))
			return batchCmds(cmds)
		}
		if m.form.current().required && value == "" {
			m.form.err = "This field is required"
			return batchCmds(cmds)
		}
		m.form.fields[m.form.index].value = value
		m.form.err = ""
		if m.form.index >= len(m.form.fields)-1 {
			cmds = append(cmds, m.submitForm())
			return batchCmds(cmds)
		}
		m.form.index++
		cmds = append(cmds, m.setMenuInput(m.form.current().label, 256, m.form.current().value))
	case tea.KeyEsc:
		cmds = append(cmds, m.cancelForm())
	}
	return batchCmds(cmds)
}

func (m *model) cancelForm() tea.Cmd {
	m.resetMessages()
	if err := m.nav.Back(); err != nil {
		m.logger.Debug("Form cancel rejected", zap.Error(err))
	}
	return m.sync()
}

func (m *model) submitForm() tea.Cmd {
	ctx := context.Background()
	m.resetMessages()
	switch m.form.kind {
	case navigator.ViewAddProspect:
		fields := m.form.prospectFields()
		if missing := fields.Missing(); len(missing) > 0 {
			m.form.err = fmt.Sprintf("%s is required", missing[0])
			return nil
		}
		prospect, ok := m.nav.SaveProspect(ctx, fields)
		if !ok {
			m.errMessage = "The account no longer exists"
			break
		}
		m.infoMessage = fmt.Sprintf("Prospect '%s' saved", prospect.FullName)
	default:
		fields := m.form.accountFields()
		if missing := fields.Missing(); len(missing) > 0 {
			m.form.err = fmt.Sprintf("%s is required", missing[0])
			return nil
		}
		account := m.nav.SaveAccount(ctx, fields)
		m.infoMessage = fmt.Sprintf("Account '%s' saved", account.CompanyName)
	}
	return m.sync()
}

func (m *model) viewForm() string {
	field := m.form.current()
	noun := "Account"
	if m.form.kind == navigator.ViewAddProspect {
		noun = "Prospect"
	}
	title := "Add " + noun
	if m.form.editing {
		title = "Edit " + noun
	}
	lines := []string{m.theme.Title.Render(title)}
	if m.form.parent != "" {
		lines = append(lines, m.theme.Secondary.Render(m.form.parent))
	}
	lines = append(lines,
		m.theme.Faint.Render("Enter details. '/' to go back a field, Esc or 'exit.' to cancel."),
		"",
		m.theme.Secondary.Render(fmt.Sprintf("%d/%d", m.form.index+1, len(m.form.fields))),
		m.theme.Primary.Render(field.label+":"),
		m.input.View(),
	)
	if m.form.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.form.err))
	}
	return strings.Join(lines, "\n")
}

// INTERACTION WIZARD

type wizardStage int

const (
	wizardType wizardStage = iota
	wizardFeedback
	wizardNotes
	wizardDeadline
)

type interactionWizard struct {
	stage    wizardStage
	prospect string
	fields   domain.InteractionFields
	err      string
}

func (m *model) openWizard() tea.Cmd {
	if m.screen.View != navigator.ViewProspectDetails || m.screen.Prospect == nil {
		m.errMessage = "Open a prospect to log an interaction"
		return nil
	}
	m.wizard = interactionWizard{stage: wizardType, prospect: m.screen.Prospect.FullName}
	m.mode = modeInteraction
	return m.setMenuInput(wizardPlaceholder(wizardType), 32)
}

func wizardPlaceholder(stage wizardStage) string {
	switch stage {
	case wizardFeedback:
		return "Feedback number or name"
	case wizardNotes:
		return "Notes (optional)"
	case wizardDeadline:
		return domain.DeadlineLayout + " (blank = no follow-up)"
	}
	return "Type number or name"
}

func (m *model) setWizardStage(stage wizardStage, value string) tea.Cmd {
	m.wizard.stage = stage
	m.wizard.err = ""
	limit := 32
	if stage == wizardNotes {
		limit = 512
	}
	return m.setMenuInput(wizardPlaceholder(stage), limit, value)
}

func (m *model) updateWizard(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEsc:
		m.infoMessage = "Interaction discarded"
		cmds = append(cmds, m.returnToCommand())
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if isExitCommand(value) {
			m.infoMessage = "Interaction discarded"
			cmds = append(cmds, m.returnToCommand())
			return batchCmds(cmds)
		}
		if isBackCommand(value) {
			cmds = append(cmds, m.wizardBack())
			return batchCmds(cmds)
		}
		m.input.SetValue("")
		cmds = append(cmds, m.advanceWizard(value))
	}
	return batchCmds(cmds)
}

func (m *model) wizardBack() tea.Cmd {
	switch m.wizard.stage {
	case wizardFeedback:
		return m.setWizardStage(wizardType, string(m.wizard.fields.Type))
	case wizardNotes:
		return m.setWizardStage(wizardFeedback, string(m.wizard.fields.Feedback))
	case wizardDeadline:
		return m.setWizardStage(wizardNotes, m.wizard.fields.Notes)
	}
	return m.returnToCommand()
}

func (m *model) advanceWizard(value string) tea.Cmd {
	switch m.wizard.stage {
	case wizardType:
		t, ok := resolveChoice(domain.InteractionTypes, value)
		if !ok {
			m.wizard.err = "Pick one of the listed types"
			return nil
		}
		m.wizard.fields.Type = t
		return m.setWizardStage(wizardFeedback, "")
	case wizardFeedback:
		f, ok := resolveChoice(domain.Feedbacks, value)
		if !ok {
			m.wizard.err = "Pick one of the listed outcomes"
			return nil
		}
		m.wizard.fields.Feedback = f
		return m.setWizardStage(wizardNotes, "")
	case wizardNotes:
		m.wizard.fields.Notes = value
		if m.wizard.fields.Feedback.RequiresDeadline() {
			return m.setWizardStage(wizardDeadline, "")
		}
		return m.submitWizard("")
	case wizardDeadline:
		if value != "" {
			if _, err := time.ParseInLocation(domain.DeadlineLayout, value, m.location()); err != nil {
				m.wizard.err = "Use the format " + domain.DeadlineLayout
				return nil
			}
		}
		return m.submitWizard(value)
	}
	return nil
}

func (m *model) submitWizard(deadline string) tea.Cmd {
	fields := m.wizard.fields
	if missing := fields.Missing(); len(missing) > 0 {
		m.wizard.err = fmt.Sprintf("%s is required", missing[0])
		return nil
	}
	m.resetMessages()
	if err := m.nav.LogInteraction(context.Background(), fields, deadline); err != nil {
		m.errMessage = err.Error()
	} else {
		m.infoMessage = fmt.Sprintf("Logged %s: %s", fields.Type, fields.Feedback)
		if deadline != "" {
			m.infoMessage += fmt.Sprintf(" (follow-up due %s)", deadline)
		}
	}
	return m.returnToCommand()
}

// resolveChoice picks a value by list number, exact name or unique prefix.
func resolveChoice[T ~string](choices []T, input string) (T, bool) {
	choice, ok, _ := resolveSelection(choices, func(c T) string { return string(c) }, input)
	return choice, ok
}

func (m *model) viewWizard() string {
	lines := []string{
		m.theme.Title.Render("Log Interaction"),
		m.theme.Secondary.Render(m.wizard.prospect),
		m.theme.Faint.Render("'/' to go back a step, Esc or 'exit.' to discard."),
		"",
	}
	switch m.wizard.stage {
	case wizardType:
		lines = append(lines, m.theme.Primary.Render("Type:"))
		for i, t := range domain.InteractionTypes {
			lines = append(lines, m.theme.Secondary.Render(fmt.Sprintf("  %d. %s", i+1, t)))
		}
	case wizardFeedback:
		lines = append(lines, m.theme.Faint.Render("Type: "+string(m.wizard.fields.Type)))
		lines = append(lines, m.theme.Primary.Render("Feedback:"))
		for i, f := range domain.Feedbacks {
			lines = append(lines, "  "+m.theme.Feedback(f).Render(fmt.Sprintf("%d. %s", i+1, f)))
		}
	case wizardNotes:
		lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("%s, %s", m.wizard.fields.Type, m.wizard.fields.Feedback)))
		lines = append(lines, m.theme.Primary.Render("Notes:"))
	case wizardDeadline:
		lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("%s, %s", m.wizard.fields.Type, m.wizard.fields.Feedback)))
		lines = append(lines, m.theme.Primary.Render("Follow-up deadline:"))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.input.View())
	if m.wizard.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.wizard.err))
	}
	return strings.Join(lines, "\n")
}

// DELETE CONFIRMATION

type confirmPrompt struct {
	view  navigator.View
	label string
}

func (m *model) openConfirm() tea.Cmd {
	switch {
	case m.screen.View == navigator.ViewAccountDetails && m.screen.Account != nil:
		m.confirm = confirmPrompt{view: m.screen.View, label: m.screen.Account.CompanyName}
	case m.screen.View == navigator.ViewProspectDetails && m.screen.Prospect != nil:
		m.confirm = confirmPrompt{view: m.screen.View, label: m.screen.Prospect.FullName}
	default:
		m.errMessage = "Nothing to delete here"
		return nil
	}
	m.mode = modeConfirm
	return m.setMenuInput("y/n", 5)
}

func (m *model) updateConfirm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEsc:
		m.infoMessage = "Delete cancelled"
		cmds = append(cmds, m.returnToCommand())
	case tea.KeyEnter:
		answer := strings.TrimSpace(strings.ToLower(m.input.Value()))
		if yes, _ := strconv.ParseBool(answer); yes || answer == "y" || answer == "yes" {
			cmds = append(cmds, m.confirmDelete())
			return batchCmds(cmds)
		}
		m.infoMessage = "Delete cancelled"
		cmds = append(cmds, m.returnToCommand())
	}
	return batchCmds(cmds)
}

func (m *model) confirmDelete() tea.Cmd {
	ctx := context.Background()
	var err error
	switch m.confirm.view {
	case navigator.ViewAccountDetails:
		err = m.nav.DeleteAccount(ctx)
	case navigator.ViewProspectDetails:
		err = m.nav.DeleteProspect(ctx)
	}
	if err != nil {
		m.errMessage = err.Error()
	} else {
		m.infoMessage = fmt.Sprintf("Deleted '%s'", m.confirm.label)
	}
	return m.returnToCommand()
}

func (m *model) viewConfirm() string {
	noun := "account"
	extra := "Its prospects, interactions and follow-ups will be removed."
	if m.confirm.view == navigator.ViewProspectDetails {
		noun = "prospect"
		extra = "Its interactions will be removed."
	}
	lines := []string{
		m.theme.Title.Render("Confirm Delete"),
		m.theme.Warning.Render(fmt.Sprintf("Delete %s '%s'?", noun, m.confirm.label)),
		m.theme.Faint.Render(extra),
		"",
		m.theme.Accent.Render("y/n> ") + m.input.View(),
	}
	return strings.Join(lines, "\n")
}
