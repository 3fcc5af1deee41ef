package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "log-level", "cache-dir", "offline", "quiet"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "info", cmd.Flags().Lookup("log-level").DefValue)
}

func TestRejectsBadInputBeforeOpeningWindow(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level", "loud"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"positional args", []string{"chair.glb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			require.Error(t, cmd.Execute())
		})
	}
}
