package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"unexpected"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	f := cmd.Flags().Lookup("env-file")
	require.NotNil(t, f)
	assert.Equal(t, ".env", f.DefValue)
}
