// Package authflow drives an interactive `gh auth login --web` run: it
// answers the CLI's yes/no and "press enter" prompts and stores the one-time
// device code printed on standard error so it can be entered on another
// machine.
package authflow
