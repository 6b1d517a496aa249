package main

import "github.com/charmbracelet/lipgloss"

var (
	sky    = lipgloss.Color("#74c7ec")
	subtle = lipgloss.Color("#a6adc8")
	green  = lipgloss.Color("#a6e3a1")
	peach  = lipgloss.Color("#fab387")
	red    = lipgloss.Color("#f38ba8")

	titleStyle   = lipgloss.NewStyle().Foreground(sky).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(subtle)
	okStyle      = lipgloss.NewStyle().Foreground(green)
	delayedStyle = lipgloss.NewStyle().Foreground(peach).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(sky).Underline(true)
)
