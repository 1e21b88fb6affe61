package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideCmd(t *testing.T) {
	out, code, err := executeCommand(rootCmd, "guide")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.Contains(t, out, "operator guide")
	assert.Contains(t, out, "munged")
	assert.Contains(t, out, "slurmd")
}
