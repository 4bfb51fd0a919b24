package logflags

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer Setup(false, "")

	require.NoError(t, Setup(false, ""))
	assert.False(t, Breakpoints())

	assert.Error(t, Setup(false, "driver"))

	require.NoError(t, Setup(true, ""))
	assert.True(t, Breakpoints())
	assert.False(t, Driver())

	require.NoError(t, Setup(true, "driver,shell"))
	assert.False(t, Breakpoints())
	assert.True(t, Driver())
	assert.True(t, Shell())

	assert.Error(t, Setup(true, "gdbwire"))
}

func TestMakeLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(nil)

	l := makeLogger(false, logrus.Fields{"layer": "test"})
	assert.Equal(t, logrus.WarnLevel, l.Logger.Level)
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "layer=test")

	l = makeLogger(true, nil)
	assert.Equal(t, logrus.DebugLevel, l.Logger.Level)
}
