package main

import "github.com/charmbracelet/lipgloss"

var (
	styleUser      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleAssistant = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleInfo      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleWarn      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
