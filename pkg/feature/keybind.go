package feature

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Keybind is a suggested command string with its description.
type Keybind struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// Keybinds returns the toggle, force-on and force-off commands for a feature name.
func Keybinds(name string) [3]Keybind {
	// Casers keep state, so one per call.
	cmd := ".t " + cases.Lower(language.Und).String(name)
	return [3]Keybind{
		{Command: cmd, Description: "Toggle " + name},
		{Command: cmd + " on", Description: "Enable " + name},
		{Command: cmd + " off", Description: "Disable " + name},
	}
}
