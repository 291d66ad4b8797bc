package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	domain "prospectflow/internal/model"
	"prospectflow/internal/navigator"
)

const commandPlaceholder = "Type a number, a name or a command"

type menuOption struct {
	id       string
	synonyms []string
}

const (
	cmdAccounts  = "accounts"
	cmdProspects = "prospects"
	cmdToDos     = "todos"
	cmdStats     = "stats"
	cmdBack      = "back"
	cmdQuit      = "quit"
	cmdAdd       = "add"
	cmdEdit      = "edit"
	cmdDelete    = "delete"
	cmdLog       = "log"
	cmdDone      = "done"
	cmdImport    = "import"
	cmdSettings  = "settings"
)

var commandOptions = []menuOption{
	{id: cmdAccounts, synonyms: []string{"accounts", "account list"}},
	{id: cmdProspects, synonyms: []string{"prospects", "pipeline"}},
	{id: cmdToDos, synonyms: []string{"todos", "todo", "to-dos", "to-do"}},
	{id: cmdStats, synonyms: []string{"stats", "statistics"}},
	{id: cmdBack, synonyms: []string{"/", "back"}},
	{id: cmdQuit, synonyms: []string{"quit", "exit", "exit.", "q"}},
	{id: cmdAdd, synonyms: []string{"add", "+", "new"}},
	{id: cmdEdit, synonyms: []string{"edit", "update"}},
	{id: cmdDelete, synonyms: []string{"delete", "del", "remove"}},
	{id: cmdLog, synonyms: []string{"log", "log interaction", "interaction"}},
	{id: cmdDone, synonyms: []string{"done", "complete"}},
	{id: cmdImport, synonyms: []string{"import"}},
	{id: cmdSettings, synonyms: []string{"settings", "preferences", "prefs"}},
}

// argCommands take the rest of the line as an argument.
var argCommands = []string{cmdDone, cmdImport}

// resolveCommand maps input to a command id and its argument.
func resolveCommand(input string) (string, string, bool) {
	value := strings.TrimSpace(input)
	lower := strings.ToLower(value)
	if lower == "" {
		return "", "", false
	}
	for _, id := range argCommands {
		if strings.HasPrefix(lower, id+" ") {
			return id, strings.TrimSpace(value[len(id)+1:]), true
		}
	}
	for _, option := range commandOptions {
		for _, syn := range option.synonyms {
			if lower == syn {
				return option.id, "", true
			}
		}
	}
	return "", "", false
}

// resolveSelection picks an item by list number, exact name or unique name
// prefix. When nothing matches it returns the closest name as a suggestion.
func resolveSelection[T any](items []T, name func(T) string, input string) (T, bool, string) {
	var empty T
	query := strings.TrimSpace(input)
	lower := strings.ToLower(query)
	switch {
	case strings.HasPrefix(lower, "open "):
		query = strings.TrimSpace(query[5:])
	case strings.HasPrefix(lower, "#"):
		query = strings.TrimSpace(query[1:])
	}
	if query == "" || len(items) == 0 {
		return empty, false, ""
	}
	if idx, err := strconv.Atoi(query); err == nil {
		if idx > 0 && idx <= len(items) {
			return items[idx-1], true, ""
		}
		return empty, false, ""
	}
	for _, item := range items {
		if strings.EqualFold(name(item), query) {
			return item, true, ""
		}
	}
	queryLower := strings.ToLower(query)
	var match T
	count := 0
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(name(item)), queryLower) {
			match = item
			count++
		}
	}
	if count == 1 {
		return match, true, ""
	}
	return empty, false, closestName(items, name, queryLower)
}

func closestName[T any](items []T, name func(T) string, query string) string {
	best := ""
	bestDist := -1
	for _, item := range items {
		candidate := name(item)
		dist := levenshtein.ComputeDistance(query, strings.ToLower(candidate))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	limit := len(query) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func (m *model) updateCommand(msg tea.Msg) tea.Cmd {
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
		m.input.SetValue("")
		if value == "" {
			return batchCmds(cmds)
		}
		m.resetMessages()
		cmds = append(cmds, m.runCommand(value))
	case tea.KeyEsc:
		m.resetMessages()
		cmds = append(cmds, m.runCommand(cmdBack))
	}
	return batchCmds(cmds)
}

func (m *model) runCommand(value string) tea.Cmd {
	ctx := context.Background()
	if m.listedName(value) {
		return m.selectByName(value)
	}
	id, arg, ok := resolveCommand(value)
	if !ok {
		return m.selectByName(value)
	}

	var err error
	switch id {
	case cmdQuit:
		return tea.Quit
	case cmdAccounts:
		err = m.nav.Navigate(navigator.ViewAccounts)
	case cmdProspects:
		err = m.nav.Navigate(navigator.ViewProspects)
	case cmdToDos:
		err = m.nav.Navigate(navigator.ViewToDos)
	case cmdStats:
		err = m.nav.Navigate(navigator.ViewStats)
	case cmdBack:
		if err = m.nav.Back(); errors.Is(err, navigator.ErrTransitionNotAllowed) {
			m.errMessage = "Nothing to go back to"
			return m.sync()
		}
	case cmdAdd:
		err = m.nav.Add()
	case cmdEdit:
		switch m.screen.View {
		case navigator.ViewAccountDetails:
			err = m.nav.EditAccount()
		default:
			err = m.nav.EditProspect()
		}
	case cmdDelete:
		return m.openConfirm()
	case cmdLog:
		return m.openWizard()
	case cmdSettings:
		return m.openSettings()
	case cmdDone:
		m.completeToDo(ctx, arg)
	case cmdImport:
		m.handleAccountImport(ctx, arg)
	}
	if errors.Is(err, navigator.ErrTransitionNotAllowed) {
		m.errMessage = fmt.Sprintf("'%s' is not available here", value)
	}
	return m.sync()
}

// listedName reports whether value exactly names an item in the current
// list, so entity names win over command words.
func (m *model) listedName(value string) bool {
	query := strings.TrimSpace(value)
	var names []string
	switch m.screen.View {
	case navigator.ViewAccounts:
		for _, a := range m.screen.Accounts {
			names = append(names, a.CompanyName)
		}
	case navigator.ViewAccountDetails:
		if m.screen.Account != nil {
			for _, p := range m.screen.Account.Prospects {
				names = append(names, p.FullName)
			}
		}
	case navigator.ViewProspects:
		for _, e := range m.screen.Prospects {
			names = append(names, e.Prospect.FullName)
		}
	}
	for _, name := range names {
		if strings.EqualFold(name, query) {
			return true
		}
	}
	return false
}

// selectByName opens the list item matching value in the current view.
func (m *model) selectByName(value string) tea.Cmd {
	var (
		found      bool
		suggestion string
		err        error
	)
	switch m.screen.View {
	case navigator.ViewAccounts:
		var account domain.Account
		account, found, suggestion = resolveSelection(m.screen.Accounts, func(a domain.Account) string { return a.CompanyName }, value)
		if found {
			m.nav.SelectAccount(account.ID)
		}
	case navigator.ViewAccountDetails:
		if m.screen.Account != nil {
			var prospect domain.Prospect
			prospect, found, suggestion = resolveSelection(m.screen.Account.Prospects, func(p domain.Prospect) string { return p.FullName }, value)
			if found {
				err = m.nav.SelectProspect(prospect.ID)
			}
		}
	case navigator.ViewProspects:
		var entry domain.ProspectEntry
		entry, found, suggestion = resolveSelection(m.screen.Prospects, func(e domain.ProspectEntry) string { return e.Prospect.FullName }, value)
		if found {
			err = m.nav.SelectListedProspect(entry.AccountID, entry.Prospect.ID)
		}
	}
	if err != nil {
		m.logger.Debug("Selection rejected", zap.String("input", value), zap.Error(err))
	}
	if !found {
		switch {
		case suggestion != "":
			m.errMessage = fmt.Sprintf("Unknown choice '%s'. Did you mean '%s'?", value, suggestion)
		default:
			m.errMessage = fmt.Sprintf("Unknown choice '%s'", value)
		}
	}
	return m.sync()
}

func (m *model) completeToDo(ctx context.Context, arg string) {
	if m.screen.View != navigator.ViewToDos {
		m.errMessage = "Open the to-do list to complete items"
		return
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || idx < 1 || idx > len(m.screen.ToDos) {
		m.errMessage = "Usage: done <number>"
		return
	}
	entry := m.screen.ToDos[idx-1]
	if err := m.nav.CompleteToDo(ctx, entry.ToDo.ID); err != nil {
		m.errMessage = err.Error()
		return
	}
	m.infoMessage = fmt.Sprintf("Completed '%s'", entry.ToDo.Description)
}

func (m *model) handleAccountImport(ctx context.Context, path string) {
	if m.screen.View != navigator.ViewAccounts {
		m.errMessage = "Import is available from the accounts list"
		return
	}
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		m.errMessage = "Provide a CSV path"
		return
	}
	resolved, err := expandPath(trimmed)
	if err != nil {
		m.errMessage = fmt.Sprintf("import path: %v", err)
		return
	}
	file, err := os.Open(resolved)
	if err != nil {
		m.errMessage = fmt.Sprintf("open file: %v", err)
		return
	}
	defer file.Close()
	result, err := m.importer.ImportAccountsCSV(ctx, file)
	if err != nil {
		m.logger.Warn("Failed to import accounts", zap.String("path", resolved), zap.Error(err))
		m.errMessage = fmt.Sprintf("import csv: %v", err)
		return
	}
	parts := []string{fmt.Sprintf("Imported %d account(s)", result.Created)}
	if result.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("skipped %d", result.Skipped))
	}
	m.infoMessage = strings.Join(parts, ", ")
	if len(result.Errors) > 0 {
		m.errMessage = strings.Join(result.Errors, "; ")
	}
}

func expandPath(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			switch {
			case len(trimmed) == 1:
				trimmed = home
			case trimmed[1] == '/', trimmed[1] == '\\':
				trimmed = filepath.Join(home, trimmed[2:])
			}
		}
	}
	return filepath.Abs(trimmed)
}

func isBackCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "/" || v == "back"
}

func isExitCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "exit."
}
