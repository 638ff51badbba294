package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wat-syntax/wat/cst"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *browserModel, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func newTestBrowser(t *testing.T, src string) *browserModel {
	t.Helper()
	o := defaultOptions()
	m := newBrowserModel("t.wat", src, &o)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotEmpty(t, m.rows)
	return m
}

func TestBrowserNavigate(t *testing.T) {
	m := newTestBrowser(t, "(module (func))")
	assert.Equal(t, cst.File, m.rows[0].node.Kind)
	assert.Equal(t, 0, m.cursor)

	send(m, "down", "j")
	assert.Equal(t, 2, m.cursor)
	send(m, "k")
	assert.Equal(t, 1, m.cursor)
	send(m, "up", "up", "up")
	assert.Equal(t, 0, m.cursor)

	for range len(m.rows) + 5 {
		send(m, "down")
	}
	assert.Equal(t, len(m.rows)-1, m.cursor)
}

func TestBrowserFold(t *testing.T) {
	m := newTestBrowser(t, "(module (func))")
	all := len(m.rows)

	send(m, "down")
	require.Equal(t, cst.Module, m.rows[1].node.Kind)
	send(m, "enter")
	assert.Len(t, m.rows, 2)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "+ ")

	send(m, "enter")
	assert.Len(t, m.rows, all)
}

func TestBrowserFilter(t *testing.T) {
	m := newTestBrowser(t, "(module (func) (func $f) (memory 1))")

	send(m, "/", "Func", "enter")
	assert.False(t, m.filtering)
	assert.Equal(t, cst.Func, m.kind)
	assert.Len(t, m.rows, 2)
	assert.Equal(t, "2 Func nodes", m.status)

	send(m, "esc")
	assert.Equal(t, cst.Kind(0), m.kind)
	assert.Greater(t, len(m.rows), 2)

	send(m, "/", "Nope", "enter")
	assert.Equal(t, `unknown kind "Nope"`, m.status)
	assert.Equal(t, cst.Kind(0), m.kind)
}

func TestBrowserFilterTypingQ(t *testing.T) {
	m := newTestBrowser(t, "(module)")
	send(m, "/", "q")
	assert.True(t, m.filtering)
	assert.Equal(t, "q", m.filter.Value())
	send(m, "esc")
	assert.False(t, m.filtering)
}

func TestBrowserDiagnostics(t *testing.T) {
	m := newTestBrowser(t, "(module (func) oops)")
	require.Len(t, m.res.Diagnostics, 1)

	send(m, "d")
	assert.Equal(t, "1:16: '(' expected, got 'oops'", m.status)
	n := m.rows[m.cursor].node
	assert.LessOrEqual(t, n.Start, 15)
	assert.Contains(t, m.View(), "1 diagnostics")

	clean := newTestBrowser(t, "(module)")
	send(clean, "d")
	assert.Equal(t, "no diagnostics", clean.status)
	assert.Contains(t, clean.View(), "no diagnostics")
}

func TestBrowserQuit(t *testing.T) {
	m := newTestBrowser(t, "(module)")
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, `"(module (func))"`, preview("(module\n\t(func))"))
	long := preview("(module (func $aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa))")
	assert.Equal(t, `"(module (func $aaaaaaaaaaaaaaaaaaaaaaaaa..."`, long)
}
