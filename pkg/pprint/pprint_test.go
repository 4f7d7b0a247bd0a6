package pprint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := Out, ErrOut
	Out, ErrOut = out, errOut
	t.Cleanup(func() { Out, ErrOut = prevOut, prevErr })
	return out, errOut
}

func TestStatusLinesSplitStreams(t *testing.T) {
	out, errOut := capture(t)

	Success("wrote %d files", 3)
	Warn("duplicate %s", "a/B.class")
	Error("failed")

	assert.Contains(t, out.String(), "wrote 3 files")
	assert.NotContains(t, out.String(), "duplicate")
	assert.Contains(t, errOut.String(), "duplicate a/B.class")
	assert.Contains(t, errOut.String(), "failed")
}

func TestTableRendersCells(t *testing.T) {
	out, _ := capture(t)

	tb := NewTable("PATH", "KEPT FROM")
	tb.AddRow("com/example/Main.class", "build/classes")
	tb.AddRow("short-row")
	tb.Render()

	s := out.String()
	assert.Contains(t, s, "PATH")
	assert.Contains(t, s, "com/example/Main.class")
	assert.Contains(t, s, "build/classes")
	assert.Contains(t, s, "short-row")
}

func TestEmptyTable(t *testing.T) {
	out, _ := capture(t)
	NewTable("A").Render()
	assert.Contains(t, out.String(), "(none)")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	_, errOut := capture(t)
	NewSpinner("merging").Stop(true)
	assert.Empty(t, errOut.String())

	s := NewSpinner("merging")
	s.Start()
	s.Stop(false)
	s.Stop(false)
	assert.Contains(t, errOut.String(), "✗")
}
