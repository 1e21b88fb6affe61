package main

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	out, code, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.Contains(t, out, "nodeboot version "+version)
	assert.Contains(t, out, "Commit: "+commit)
	assert.Contains(t, out, "Go Version: "+runtime.Version())
}
