package colours

import "github.com/fatih/color"

// Colour scheme for the CLI
var (
	Title     = color.New(color.FgCyan, color.Bold)
	Prompt    = color.New(color.FgGreen, color.Bold)
	Error     = color.New(color.FgRed, color.Bold)
	Success   = color.New(color.FgGreen)
	Info      = color.New(color.FgBlue)
	Warning   = color.New(color.FgYellow)
	Highlight = color.New(color.BgYellow, color.FgBlack, color.Bold)
)
