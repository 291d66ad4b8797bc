package ui

import (
	"fmt"
	"strings"

	domain "prospectflow/internal/model"
	"prospectflow/internal/navigator"
)

const timestampLayout = "Jan 02 2006 15:04"

type navItem struct {
	view  navigator.View
	label string
}

var navItems = []navItem{
	{view: navigator.ViewAccounts, label: "Accounts"},
	{view: navigator.ViewProspects, label: "Prospects"},
	{view: navigator.ViewToDos, label: "ToDos"},
	{view: navigator.ViewStats, label: "Stats"},
}

// section maps a view onto the navigation bar entry it belongs to.
func (m *model) section() navigator.View {
	switch m.screen.View {
	case navigator.ViewAddAccount, navigator.ViewAccountDetails, navigator.ViewAddProspect:
		return navigator.ViewAccounts
	case navigator.ViewProspectDetails:
		if m.nav.ProspectOrigin() == navigator.ViewProspects {
			return navigator.ViewProspects
		}
		return navigator.ViewAccounts
	}
	return m.screen.View
}

func (m *model) viewNavBar() string {
	active := m.section()
	parts := make([]string, 0, len(navItems))
	for _, item := range navItems {
		label := item.label
		style := m.theme.NavInactive
		if item.view == active {
			style = m.theme.NavActive
		}
		rendered := style.Render(label)
		if item.view == navigator.ViewToDos && m.screen.PendingToDos > 0 {
			rendered += m.theme.Badge.Render(fmt.Sprintf("%d", m.screen.PendingToDos))
		}
		parts = append(parts, rendered)
	}
	bar := strings.Join(parts, " ")
	if m.cfg != nil && m.cfg.Config.Name != "" {
		bar += "  " + m.theme.Highlight.Render(m.cfg.Config.Name)
	}
	return bar
}

// frame wraps a body with the navigation bar and status messages.
func (m *model) frame(body string) string {
	lines := []string{
		m.viewNavBar(),
		m.theme.Border.Render(strings.Repeat("─", 48)),
		body,
	}
	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *model) viewScreen() string {
	var lines []string
	switch m.screen.View {
	case navigator.ViewAccounts:
		lines = m.viewAccounts()
	case navigator.ViewAccountDetails:
		lines = m.viewAccountDetails()
	case navigator.ViewProspectDetails:
		lines = m.viewProspectDetails()
	case navigator.ViewProspects:
		lines = m.viewProspects()
	case navigator.ViewToDos:
		lines = m.viewToDos()
	case navigator.ViewStats:
		lines = m.viewStats()
	}
	lines = append(lines, "", m.viewHelp())
	lines = append(lines, m.theme.Accent.Render("> ")+m.input.View())
	return strings.Join(lines, "\n")
}

func (m *model) viewHelp() string {
	var keys []string
	if m.screen.Add != navigator.AddNone {
		keys = append(keys, "add")
	}
	switch m.screen.View {
	case navigator.ViewAccounts:
		keys = append(keys, "import <path>")
	case navigator.ViewAccountDetails:
		keys = append(keys, "edit", "delete")
	case navigator.ViewProspectDetails:
		keys = append(keys, "log", "edit", "delete")
	case navigator.ViewToDos:
		keys = append(keys, "done <n>")
	}
	if m.screen.HasBack {
		keys = append(keys, "/ back")
	}
	keys = append(keys, "settings", "quit")
	rendered := make([]string, 0, len(keys))
	for _, k := range keys {
		rendered = append(rendered, m.theme.HelpKey.Render(k))
	}
	return m.theme.HelpValue.Render("Commands: ") + strings.Join(rendered, m.theme.Faint.Render("  •  "))
}

func (m *model) viewAccounts() []string {
	lines := []string{m.theme.Title.Render("Accounts")}
	if len(m.screen.Accounts) == 0 {
		lines = append(lines, "", m.theme.Warning.Render("No accounts yet. Type 'add' to create one or 'import <path>' to load a CSV."))
		return lines
	}
	lines = append(lines, "")
	for i, a := range m.screen.Accounts {
		lines = append(lines, m.theme.Primary.Render(fmt.Sprintf("%d. %s", i+1, a.CompanyName)))
		meta := []string{}
		if a.Industry != "" {
			meta = append(meta, a.Industry)
		}
		meta = append(meta, plural(len(a.Prospects), "prospect"))
		lines = append(lines, "  "+m.theme.Faint.Render(strings.Join(meta, "  •  ")))
	}
	return lines
}

func (m *model) viewAccountDetails() []string {
	a := m.screen.Account
	if a == nil {
		return []string{m.theme.Warning.Render("Account not found.")}
	}
	lines := []string{m.theme.Title.Render(a.CompanyName)}
	if a.Industry != "" {
		lines = append(lines, m.theme.Secondary.Render(a.Industry))
	}
	for _, row := range []struct{ label, value string }{
		{"Company info", a.CompanyInfo},
		{"Pain points", a.PainPoints},
		{"Impact", a.Impact},
	} {
		if row.value != "" {
			lines = append(lines, m.theme.Faint.Render(row.label+": ")+row.value)
		}
	}
	lines = append(lines, "", m.theme.Subtitle.Render("Prospects"))
	if len(a.Prospects) == 0 {
		lines = append(lines, m.theme.Faint.Render("No prospects yet. Type 'add' to create one."))
		return lines
	}
	for i, p := range a.Prospects {
		header := fmt.Sprintf("%d. %s", i+1, p.FullName)
		if p.Position != "" {
			header += ", " + p.Position
		}
		lines = append(lines, m.theme.Primary.Render(header))
		lines = append(lines, "  "+m.latestLine(p))
	}
	return lines
}

func (m *model) viewProspectDetails() []string {
	p := m.screen.Prospect
	if p == nil {
		return []string{m.theme.Warning.Render("Prospect not found.")}
	}
	lines := []string{m.theme.Title.Render(p.FullName)}
	subtitle := p.Position
	if m.screen.Account != nil {
		if subtitle != "" {
			subtitle += " at "
		}
		subtitle += m.screen.Account.CompanyName
	}
	if subtitle != "" {
		lines = append(lines, m.theme.Secondary.Render(subtitle))
	}
	for _, row := range []struct{ label, value string }{
		{"Contact", p.ContactInfo},
		{"LinkedIn", p.LinkedInProfile},
		{"Personality", p.Personality},
	} {
		if row.value != "" {
			lines = append(lines, m.theme.Faint.Render(row.label+": ")+row.value)
		}
	}
	lines = append(lines, "", m.theme.Subtitle.Render("Interactions"))
	if len(m.screen.Interactions) == 0 {
		lines = append(lines, m.theme.Faint.Render("No interactions yet. Type 'log' to record one."))
		return lines
	}
	for _, in := range m.screen.Interactions {
		stamp := in.Timestamp.In(m.location()).Format(timestampLayout)
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			m.theme.Primary.Render("["+string(in.Type)+"]"),
			m.theme.Feedback(in.Feedback).Render(string(in.Feedback)),
			m.theme.Faint.Render(stamp)))
		if in.Notes != "" {
			lines = append(lines, "  "+m.theme.Secondary.Render(in.Notes))
		}
	}
	return lines
}

func (m *model) viewProspects() []string {
	lines := []string{
		m.theme.Title.Render("Prospects"),
		m.theme.Faint.Render("Warmest first, by latest feedback."),
	}
	if len(m.screen.Prospects) == 0 {
		lines = append(lines, "", m.theme.Warning.Render("No prospects yet."))
		return lines
	}
	lines = append(lines, "")
	for i, e := range m.screen.Prospects {
		lines = append(lines, m.theme.Primary.Render(fmt.Sprintf("%d. %s", i+1, e.Prospect.FullName))+
			m.theme.Faint.Render(" @ "+e.AccountName))
		lines = append(lines, "  "+m.latestLine(e.Prospect)+
			m.theme.Faint.Render("  •  "+plural(len(e.Prospect.Interactions), "interaction")))
	}
	return lines
}

func (m *model) latestLine(p domain.Prospect) string {
	latest, ok := p.LatestInteraction()
	if !ok {
		return m.theme.Faint.Render("Not contacted")
	}
	stamp := latest.Timestamp.In(m.location()).Format(timestampLayout)
	return m.theme.Feedback(latest.Feedback).Render(string(latest.Feedback)) +
		m.theme.Faint.Render(fmt.Sprintf(" via %s, %s", latest.Type, stamp))
}

func (m *model) viewToDos() []string {
	lines := []string{m.theme.Title.Render("ToDos")}
	if len(m.screen.ToDos) == 0 {
		lines = append(lines, "", m.theme.Success.Render("Nothing pending."))
		return lines
	}
	lines = append(lines, "")
	now := m.now().In(m.location())
	for i, e := range m.screen.ToDos {
		header := m.theme.Primary.Render(fmt.Sprintf("%d. %s", i+1, e.ToDo.Description))
		due := m.theme.Secondary.Render("due " + e.ToDo.Deadline)
		if e.ToDo.Overdue(now) {
			due = m.theme.Danger.Render("overdue " + e.ToDo.Deadline)
		}
		lines = append(lines, header+"  "+due)
		switch {
		case e.Orphaned && e.AccountName != "":
			lines = append(lines, "  "+m.theme.Faint.Render("removed prospect @ "+e.AccountName))
		case e.Orphaned:
			lines = append(lines, "  "+m.theme.Faint.Render("removed account"))
		default:
			lines = append(lines, "  "+m.theme.Faint.Render(e.ProspectName+" @ "+e.AccountName))
		}
	}
	return lines
}

func (m *model) viewStats() []string {
	s := m.screen.Stats
	lines := []string{m.theme.Title.Render("Stats"), ""}
	bars := []struct {
		label string
		value int
	}{
		{"Cold calls", s.ColdCalls},
		{"Emails sent", s.EmailsSent},
		{"LinkedIn messages", s.LinkedInMessages},
	}
	max := 0
	for _, b := range bars {
		if b.value > max {
			max = b.value
		}
	}
	for _, b := range bars {
		lines = append(lines, fmt.Sprintf("%-18s %s %d",
			b.label, m.theme.RenderBar(b.value, max, 24), b.value))
	}
	lines = append(lines, "",
		m.theme.Secondary.Render(fmt.Sprintf("Total interactions: %d", s.TotalInteractions)),
		m.theme.Secondary.Render(fmt.Sprintf("Successful interactions: %d", s.SuccessfulInteractions)),
		m.theme.Accent.Render(fmt.Sprintf("Success rate: %s%%", s.SuccessRateLabel())),
	)
	return lines
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
