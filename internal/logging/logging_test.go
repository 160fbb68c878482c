package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestVerbosityFromFlags(t *testing.T) {
	assert.Equal(t, Normal, VerbosityFromFlags(false, false))
	assert.Equal(t, Verbose, VerbosityFromFlags(true, false))
	assert.Equal(t, Quiet, VerbosityFromFlags(false, true))
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, Normal)
	assert.Equal(t, log.InfoLevel, l.GetLevel())
	l.Debug("hidden")
	assert.Empty(t, buf.String())
	l.Info("shown", "window", 42)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "window=42")

	assert.Equal(t, log.DebugLevel, New(&buf, Verbose).GetLevel())
}

func TestNew_QuietDiscards(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Quiet)
	l.Error("nobody hears this")
	assert.Empty(t, buf.String())
}
