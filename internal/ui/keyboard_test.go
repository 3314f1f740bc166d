package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anelyubin/meteopod/internal/creds"
)

func TestKeyboardCharAt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, byte('a'), kbCharAt(0, 0))
	assert.Equal(t, byte('x'), kbCharAt(1, 11))
	assert.Equal(t, byte('9'), kbCharAt(2, 11))
	assert.Equal(t, byte('Z'), kbCharAt(5, 1))
	// last row past the threshold resolves to the symbol list
	assert.Equal(t, byte(' '), kbCharAt(5, kbSymbolThreshold))
	assert.Equal(t, byte('.'), kbCharAt(5, kbSymbolThreshold+1))
	assert.Equal(t, byte('&'), kbCharAt(5, kbColCount-1))
}

func TestCursorClamp(t *testing.T) {
	t.Parallel()
	e := newEditor()
	for i := 0; i < 100; i++ {
		e.moveDown()
	}
	assert.Equal(t, kbRowCount-1, e.row)
	for i := 0; i < 100; i++ {
		e.moveRight()
	}
	assert.Equal(t, kbColCount-1, e.col)
	for i := 0; i < 100; i++ {
		e.moveUp()
	}
	assert.Equal(t, 0, e.row)
	for i := 0; i < 100; i++ {
		e.moveLeft()
	}
	assert.Equal(t, 0, e.col)
}

func TestBufferCapacity(t *testing.T) {
	t.Parallel()
	e := newEditor()

	e.active = fieldName
	for i := 0; i < creds.MaxNameLen+10; i++ {
		e.insert()
	}
	assert.Len(t, e.name, creds.MaxNameLen)

	e.active = fieldSecret
	for i := 0; i < creds.MaxSecretLen+10; i++ {
		e.insert()
	}
	assert.Len(t, e.secret, creds.MaxSecretLen)

	e.deleteLast()
	assert.Len(t, e.secret, creds.MaxSecretLen-1)
	e.active = fieldName
	assert.Len(t, e.name, creds.MaxNameLen)
}

func TestDeleteEmpty(t *testing.T) {
	t.Parallel()
	e := newEditor()
	e.deleteLast()
	assert.Empty(t, e.name)
}

func TestSetNameTruncates(t *testing.T) {
	t.Parallel()
	e := newEditor()
	e.setName(strings.Repeat("n", creds.MaxNameLen+5))
	assert.Len(t, e.name, creds.MaxNameLen)
}
