// Package settings is the interactive editor for config.yaml.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"porridge/internal/backend"
	"porridge/internal/config"
	"porridge/internal/editprompt"
)

// Choices are the options offered by the form.
type Choices struct {
	Editors  []string
	Backends []string
	// Models per backend name.
	Models map[string][]string
}

// DefaultChoices collects the built-in editors, backends and their models.
func DefaultChoices(ctx context.Context) Choices {
	c := Choices{Models: map[string][]string{}}
	for _, e := range editprompt.DefaultRegistry().Editors() {
		c.Editors = append(c.Editors, e.Name())
	}
	reg := backend.Default()
	c.Backends = reg.Names()
	for _, name := range c.Backends {
		b, err := reg.Get(name)
		if err != nil {
			continue
		}
		if list, err := b.ListModels(ctx); err == nil {
			c.Models[name] = list
		}
	}
	return c
}

// options turns values into huh options, keeping current selectable even
// when it is not one of them.
func options(values []string, current string) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(values)+1)
	found := current == ""
	for _, v := range values {
		out = append(out, huh.NewOption(v, v))
		if v == current {
			found = true
		}
	}
	if !found {
		out = append(out, huh.NewOption(current+" (current)", current))
	}
	return out
}

// NewForm builds the settings form bound to c. Submitting it writes the
// selections into c.
func NewForm(c *config.Config, choices Choices) (*huh.Form, *string) {
	limit := strconv.Itoa(c.TranscriptLimit)

	// Light theme tweaks inspired by freeze/interactive.go
	green := lipgloss.Color("#03BF87")
	theme := huh.ThemeCharm()
	theme.FieldSeparator = lipgloss.NewStyle()
	theme.Blurred.Title = theme.Blurred.Title.Width(18).Foreground(lipgloss.Color("7"))
	theme.Focused.Title = theme.Focused.Title.Width(18).Foreground(green).Bold(true)
	theme.Blurred.SelectedOption = theme.Blurred.SelectedOption.Foreground(lipgloss.Color("243"))
	theme.Focused.SelectedOption = lipgloss.NewStyle().Foreground(green)
	theme.Focused.Base.BorderForeground(green)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Settings").Description("Saved to config.yaml"),
			huh.NewSelect[string]().
				Title("Editor").
				Options(options(choices.Editors, c.Editor)...).
				Value(&c.Editor),
			huh.NewSelect[string]().
				Title("Backend").
				Options(options(choices.Backends, c.Backend)...).
				Value(&c.Backend),
			huh.NewSelect[string]().
				Title("Model").
				OptionsFunc(func() []huh.Option[string] {
					return options(choices.Models[c.Backend], c.Model)
				}, &c.Backend).
				Value(&c.Model),
			huh.NewSelect[string]().
				Title("Theme").
				Options(options([]string{"dark", "light", "notty"}, c.Theme)...).
				Value(&c.Theme),
			huh.NewInput().
				Title("Transcript limit").
				Description("Messages copied into the prompt file").
				Value(&limit).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
	).WithTheme(theme).WithWidth(60)
	return form, &limit
}

// Run shows the form and saves the result.
func Run(ctx context.Context) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	choices := DefaultChoices(ctx)
	cancel()

	form, limit := NewForm(&c, choices)
	if err := form.Run(); err != nil {
		return err // form canceled or failed
	}
	if err := c.Set(config.KeyTranscriptLimit, *limit); err != nil {
		return err
	}
	p, err := config.Save(c)
	if err != nil {
		return err
	}
	fmt.Printf("\n✓ saved %s\n\n", p)
	return nil
}
