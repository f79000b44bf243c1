// Package util holds small helpers shared by TUI components.
package util

import (
	tea "charm.land/bubbletea/v2"
)

// Model is a TUI component that renders to a string.
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Model, tea.Cmd)
	View() string
}

// InfoType is the severity of an InfoMsg.
type InfoType int

// Info severities.
const (
	InfoTypeInfo InfoType = iota
	InfoTypeWarn
	InfoTypeError
)

// InfoMsg carries a one-line status message.
type InfoMsg struct {
	Type InfoType
	Msg  string
}

// CmdHandler wraps msg in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportError returns a command that reports err as an InfoMsg.
func ReportError(err error) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeError, Msg: err.Error()})
}

// ReportInfo returns a command that reports an informational message.
func ReportInfo(info string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeInfo, Msg: info})
}
