package models

import "strings"

// SlashCommand is a parsed "/cmd args..." line typed into the prompt.
type SlashCommand struct {
	Command string
	Args    []string
}

var slashAliases = map[string][]string{
	"quit":      {"/q", "/quit"},
	"modellist": {"/ml", "/modellist"},
	"model":     {"/m", "/model"},
	"append":    {"/a", "/append"},
	"replace":   {"/r", "/replace"},
	"copy":      {"/c", "/copy"},
	"edit":      {"/e", "/edit"},
	"help":      {"/h", "/help"},
}

// ParseSlashCommand returns the command when text is a known slash command.
// Anything else, including unknown "/foo" lines, is an ordinary prompt.
func ParseSlashCommand(text string) (SlashCommand, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return SlashCommand{}, false
	}
	cmd := SlashCommand{Command: strings.ToLower(fields[0]), Args: fields[1:]}
	for _, names := range slashAliases {
		for _, n := range names {
			if n == cmd.Command {
				return cmd, true
			}
		}
	}
	return SlashCommand{}, false
}

func (c SlashCommand) is(name string) bool {
	for _, n := range slashAliases[name] {
		if n == c.Command {
			return true
		}
	}
	return false
}

func (c SlashCommand) IsQuit() bool      { return c.is("quit") }
func (c SlashCommand) IsModelList() bool { return c.is("modellist") }
func (c SlashCommand) IsModelSet() bool  { return c.is("model") }
func (c SlashCommand) IsAppend() bool    { return c.is("append") }
func (c SlashCommand) IsReplace() bool   { return c.is("replace") }
func (c SlashCommand) IsCopy() bool      { return c.is("copy") }
func (c SlashCommand) IsEdit() bool      { return c.is("edit") }
func (c SlashCommand) IsHelp() bool      { return c.is("help") }

// Canonical returns the long form of the command, e.g. "/append" for "/a".
func (c SlashCommand) Canonical() string {
	for _, names := range slashAliases {
		for _, n := range names {
			if n == c.Command {
				return names[len(names)-1]
			}
		}
	}
	return c.Command
}
