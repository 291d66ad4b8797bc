package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// SETTINGS

type settingsStage int

const (
	settingsViewing settingsStage = iota
	settingsEditingName
	settingsEditingTimezone
)

const settingsPlaceholder = "1=Name  2=Timezone  3=Back"

type settingsPanel struct {
	stage settingsStage
	err   string
}

func (m *model) openSettings() tea.Cmd {
	if m.cfg == nil {
		m.errMessage = "Settings are unavailable"
		return nil
	}
	m.settings = settingsPanel{stage: settingsViewing}
	m.mode = modeSettings
	return m.setMenuInput(settingsPlaceholder, 40)
}

func (m *model) updateSettings(msg tea.Msg) tea.Cmd {
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
		if m.settings.stage == settingsViewing {
			cmds = append(cmds, m.returnToCommand())
		} else {
			cmds = append(cmds, m.settingsStage(settingsViewing))
		}
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		switch m.settings.stage {
		case settingsViewing:
			cmds = append(cmds, m.chooseSetting(value))
		case settingsEditingName:
			cmds = append(cmds, m.saveName(value))
		case settingsEditingTimezone:
			cmds = append(cmds, m.saveTimezone(value))
		}
	}
	return batchCmds(cmds)
}

func (m *model) chooseSetting(value string) tea.Cmd {
	switch strings.ToLower(value) {
	case "1", "name":
		return m.settingsStage(settingsEditingName)
	case "2", "timezone", "tz":
		return m.settingsStage(settingsEditingTimezone)
	case "3", "back", "/", "exit.":
		return m.returnToCommand()
	case "":
		return nil
	}
	m.settings.err = "Choose 1 or 2 to edit settings"
	return nil
}

func (m *model) settingsStage(stage settingsStage) tea.Cmd {
	m.settings.stage = stage
	m.settings.err = ""
	switch stage {
	case settingsEditingName:
		return m.setMenuInput(m.cfg.Config.Name, 64)
	case settingsEditingTimezone:
		return m.setMenuInput(m.cfg.Config.Timezone+" (IANA name, e.g. Europe/Berlin)", 64)
	}
	return m.setMenuInput(settingsPlaceholder, 40)
}

func (m *model) saveName(value string) tea.Cmd {
	switch {
	case isExitCommand(value):
		return m.returnToCommand()
	case isBackCommand(value):
		return m.settingsStage(settingsViewing)
	case value == "":
		m.settings.err = "Name cannot be empty"
		return nil
	}
	previous := m.cfg.Config.Name
	m.cfg.Config.Name = value
	if err := m.cfg.Save(); err != nil {
		m.cfg.Config.Name = previous
		m.logger.Error("Failed to save settings", zap.String("field", "name"), zap.Error(err))
		m.settings.err = err.Error()
		return nil
	}
	m.resetMessages()
	m.infoMessage = "Name updated"
	return m.settingsStage(settingsViewing)
}

func (m *model) saveTimezone(value string) tea.Cmd {
	switch {
	case isExitCommand(value):
		return m.returnToCommand()
	case isBackCommand(value):
		return m.settingsStage(settingsViewing)
	case value == "":
		m.settings.err = "Timezone cannot be empty"
		return nil
	}
	if _, err := time.LoadLocation(value); err != nil {
		m.settings.err = fmt.Sprintf("Unknown timezone '%s'", value)
		return nil
	}
	previous := m.cfg.Config.Timezone
	m.cfg.Config.Timezone = value
	if err := m.cfg.Save(); err != nil {
		m.cfg.Config.Timezone = previous
		m.logger.Error("Failed to save settings", zap.String("field", "timezone"), zap.Error(err))
		m.settings.err = err.Error()
		return nil
	}
	m.resetMessages()
	m.infoMessage = "Timezone updated"
	return m.settingsStage(settingsViewing)
}

func (m *model) viewSettings() string {
	cfg := m.cfg.Config
	row := func(n int, label, value string, stage settingsStage) string {
		style := m.theme.Primary
		if m.settings.stage == stage {
			style = m.theme.Highlight
		}
		return style.Render(fmt.Sprintf("%d. %-9s", n, label)) + " " + value
	}
	lines := []string{
		m.theme.Title.Render("Settings"),
		"",
		row(1, "Name", cfg.Name, settingsEditingName),
		row(2, "Timezone", cfg.Timezone, settingsEditingTimezone),
		"",
		m.theme.Faint.Render("Config: " + m.cfg.Path()),
		m.theme.Faint.Render("Storage: " + cfg.Storage.Path),
		"",
		m.theme.Subtitle.Render("Stats triggers"),
	}
	for _, t := range cfg.Stats.Triggers {
		lines = append(lines, m.theme.Secondary.Render(fmt.Sprintf("  %s = %s  →  %s", t.Axis, t.Value, t.Counter)))
	}
	if len(cfg.Stats.Triggers) == 0 {
		lines = append(lines, m.theme.Faint.Render("  defaults"))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.input.View())
	if m.settings.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.settings.err))
	}
	return strings.Join(lines, "\n")
}
