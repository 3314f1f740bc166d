package ui

import (
	"github.com/anelyubin/meteopod/internal/creds"
)

const (
	kbRowCount        = 6
	kbColCount        = 12
	kbSymbolThreshold = 2
)

var kbRows = [kbRowCount]string{
	"abcdefghijkl",
	"mnopqrstuvwx",
	"yz0123456789",
	"ABCDEFGHIJKL",
	"MNOPQRSTUVWX",
	"YZ", // columns past kbSymbolThreshold resolve to kbSymbols
}

// secondary symbol list of the last row, indexed by col-kbSymbolThreshold
const kbSymbols = " .-_!@#$%&"

func kbCharAt(row, col int) byte {
	if row == kbRowCount-1 && col >= kbSymbolThreshold {
		i := col - kbSymbolThreshold
		if i >= len(kbSymbols) {
			i = len(kbSymbols) - 1
		}
		return kbSymbols[i]
	}
	r := kbRows[row]
	if col < len(r) {
		return r[col]
	}
	return ' '
}

type field uint8

const (
	fieldName field = iota
	fieldSecret
)

func (f field) String() string {
	if f == fieldSecret {
		return "secret"
	}
	return "name"
}

// editor is the keyboard cursor plus the two bounded text buffers.
// Gesture arming: a held gesture fires once per press episode, the flag
// re-arms only after the button is observed released.
type editor struct {
	row, col int
	name     []byte
	secret   []byte
	active   field

	insertArmed  bool
	deleteArmed  bool
	confirmArmed bool
}

func newEditor() editor {
	return editor{
		name:         make([]byte, 0, creds.MaxNameLen),
		secret:       make([]byte, 0, creds.MaxSecretLen),
		insertArmed:  true,
		deleteArmed:  true,
		confirmArmed: true,
	}
}

func (e *editor) buf() *[]byte {
	if e.active == fieldSecret {
		return &e.secret
	}
	return &e.name
}

func (e *editor) bufMax() int {
	if e.active == fieldSecret {
		return creds.MaxSecretLen
	}
	return creds.MaxNameLen
}

// no wraparound on purpose: held gestures are timing based, a wrap during
// repeated up/down must not silently change the edited field
func (e *editor) moveUp() {
	if e.row > 0 {
		e.row--
	}
}

func (e *editor) moveDown() {
	if e.row < kbRowCount-1 {
		e.row++
	}
}

func (e *editor) moveLeft() {
	if e.col > 0 {
		e.col--
	}
}

func (e *editor) moveRight() {
	if e.col < kbColCount-1 {
		e.col++
	}
}

// insert appends the highlighted character, silent no-op at capacity.
func (e *editor) insert() {
	b := e.buf()
	if len(*b) >= e.bufMax() {
		return
	}
	*b = append(*b, kbCharAt(e.row, e.col))
}

func (e *editor) deleteLast() {
	b := e.buf()
	if len(*b) > 0 {
		*b = (*b)[:len(*b)-1]
	}
}

func (e *editor) setName(s string) {
	if len(s) > creds.MaxNameLen {
		s = s[:creds.MaxNameLen]
	}
	e.name = append(e.name[:0], s...)
}

func (e *editor) setSecret(s string) {
	if len(s) > creds.MaxSecretLen {
		s = s[:creds.MaxSecretLen]
	}
	e.secret = append(e.secret[:0], s...)
}

func (e *editor) credential() creds.Credential {
	return creds.Credential{Name: string(e.name), Secret: string(e.secret)}
}
