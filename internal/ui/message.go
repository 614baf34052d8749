package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/photobook/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSynced MsgKind = iota
	MsgUploaded
	MsgFlipDone
	MsgCloseDone
)

// syncedMsg is the constructor for [MsgSynced]
func syncedMsg(err error) Msg {
	return Msg{kind: MsgSynced, data: err}
}

// uploadedMsg is the constructor for [MsgUploaded]
func uploadedMsg(record models.PhotoRecord, err error) Msg {
	return Msg{
		kind: MsgUploaded,
		data: struct {
			record models.PhotoRecord
			err    error
		}{record, err},
	}
}

// flipDoneMsg is the constructor for [MsgFlipDone]
func flipDoneMsg() Msg {
	return Msg{kind: MsgFlipDone}
}

// closeDoneMsg is the constructor for [MsgCloseDone]
func closeDoneMsg() Msg {
	return Msg{kind: MsgCloseDone}
}
