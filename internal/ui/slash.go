package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"porridge/internal/codeblocks"
	"porridge/internal/models"
)

type SlashCmd struct {
	Name    string
	Aliases []string
	Args    string
	Desc    string
}

var slashCmds = []SlashCmd{
	{Name: "/edit", Aliases: []string{"/e"}, Desc: "Write the prompt in your editor"},
	{Name: "/model", Aliases: []string{"/m"}, Args: "<name>", Desc: "Switch model"},
	{Name: "/modellist", Aliases: []string{"/ml"}, Desc: "List models offered by the backend"},
	{Name: "/append", Aliases: []string{"/a"}, Args: "[n]", Desc: "Append code block n to the prompt"},
	{Name: "/replace", Aliases: []string{"/r"}, Args: "[n]", Desc: "Replace the prompt with code block n"},
	{Name: "/copy", Aliases: []string{"/c"}, Args: "[n]", Desc: "Copy code block n to the clipboard"},
	{Name: "/help", Aliases: []string{"/h"}, Desc: "Show keys and commands"},
	{Name: "/quit", Aliases: []string{"/q"}, Desc: "Exit porridge"},
}

// slashSource adapts slashCmds for fuzzy matching on the bare name.
type slashSource []SlashCmd

func (s slashSource) String(i int) string { return strings.TrimPrefix(s[i].Name, "/") }
func (s slashSource) Len() int            { return len(s) }

// filterSlashCommands ranks commands for the first token of the input. An
// exact alias match always comes first so "/e" selects /edit.
func filterSlashCommands(token string) []SlashCmd {
	q := strings.ToLower(strings.TrimPrefix(token, "/"))
	if q == "" {
		return slashCmds
	}
	var out []SlashCmd
	seen := map[string]bool{}
	for _, c := range slashCmds {
		for _, a := range c.Aliases {
			if strings.TrimPrefix(a, "/") == q {
				out = append(out, c)
				seen[c.Name] = true
			}
		}
	}
	for _, match := range fuzzy.FindFrom(q, slashSource(slashCmds)) {
		c := slashCmds[match.Index]
		if !seen[c.Name] {
			out = append(out, c)
			seen[c.Name] = true
		}
	}
	return out
}

// refreshSlash recomputes palette visibility from the input value. The
// palette only shows while the first token is still being typed.
func (m *Model) refreshSlash() {
	v := m.input.Value()
	if !strings.HasPrefix(v, "/") || strings.ContainsAny(v, " \t\n") {
		m.slashVisible = false
		m.slashFiltered = nil
		m.slashIndex = 0
		return
	}
	m.slashVisible = true
	m.slashFiltered = filterSlashCommands(v)
	if m.slashIndex >= len(m.slashFiltered) {
		m.slashIndex = 0
	}
}

// completeSlash replaces the typed token with the selected command.
func (m *Model) completeSlash() {
	if !m.slashVisible || len(m.slashFiltered) == 0 {
		return
	}
	m.input.SetValue(m.slashFiltered[m.slashIndex].Name + " ")
	m.input.CursorEnd()
	m.refreshSlash()
}

func (m Model) execSlash(sc models.SlashCommand) (Model, tea.Cmd) {
	switch {
	case sc.IsQuit():
		return m.quit()
	case sc.IsEdit():
		return m.beginEdit()
	case sc.IsHelp():
		m.appendMessage(models.NewMessage(models.AuthorPorridge, helpText()))
		return m, nil
	case sc.IsModelList():
		if m.backend == nil {
			return m, noticeCmd("no backend configured")
		}
		b := m.backend
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			list, err := b.ListModels(ctx)
			return modelsMsg{models: list, err: err}
		}
	case sc.IsModelSet():
		if len(sc.Args) == 0 {
			return m, noticeCmd(fmt.Sprintf("current model: %s", m.modelName()))
		}
		name := strings.Join(sc.Args, " ")
		m.cfg.Model = name
		m.session.Model = name
		return m, tea.Batch(noticeCmd("model set to "+name), m.saveSession())
	case sc.IsAppend(), sc.IsReplace(), sc.IsCopy():
		n, err := blockIndex(sc.Args)
		if err != nil {
			return m, noticeCmd(err.Error())
		}
		block, err := codeblocks.Pick(codeblocks.FromMessages(m.session.Messages), n)
		if err != nil {
			return m, noticeCmd(err.Error())
		}
		switch {
		case sc.IsCopy():
			return m, func() tea.Msg {
				if err := codeblocks.Copy(block); err != nil {
					return noticeMsg("copy failed: " + err.Error())
				}
				return noticeMsg("code block copied to clipboard")
			}
		case sc.IsAppend():
			v := m.input.Value()
			if v != "" && !strings.HasSuffix(v, "\n") {
				v += "\n"
			}
			m.input.SetValue(v + block.Code)
		default:
			m.input.SetValue(block.Code)
		}
		m.input.CursorEnd()
		return m, nil
	}
	return m, noticeCmd("unknown command " + sc.Command)
}

// blockIndex parses the optional 1-based code block argument; 0 means last.
func blockIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid code block number %q", args[0])
	}
	return n, nil
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range slashCmds {
		name := c.Name
		if c.Args != "" {
			name += " " + c.Args
		}
		fmt.Fprintf(&b, "  %-16s %-4s %s\n", name, strings.Join(c.Aliases, ","), c.Desc)
	}
	b.WriteString("\nKeys: enter send · alt+enter newline · ctrl+o edit in $EDITOR · esc cancel · pgup/pgdn scroll · ctrl+c quit")
	return b.String()
}

func noticeCmd(s string) tea.Cmd {
	return func() tea.Msg { return noticeMsg(s) }
}
