package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"igsaver/pkg/backup"
)

func TestConsoleLevel(t *testing.T) {
	assert.Equal(t, "warn", consoleLevel(false, false))
	assert.Equal(t, "debug", consoleLevel(false, true))
	assert.Equal(t, "error", consoleLevel(true, false))
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantUser string
		wantSelf bool
	}{
		{"defaults to authenticated account", nil, "alice", true},
		{"explicit other account", []string{"bob"}, "bob", false},
		{"explicit self with different case", []string{"Alice"}, "Alice", true},
		{"strips at sign", []string{" @bob "}, "bob", false},
		{"blank argument", []string{" "}, "alice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, self := resolveTarget(tt.args, "alice")
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantSelf, self)
		})
	}
}

func TestSelectedMode(t *testing.T) {
	defer func() { storiesMode = false }()

	assert.Equal(t, backup.ModeHighlights, selectedMode())
	storiesMode = true
	assert.Equal(t, backup.ModeStories, selectedMode())
}

func TestRootFlags(t *testing.T) {
	flags := rootCmd.Flags()

	skip := flags.Lookup("skip-existing")
	if assert.NotNil(t, skip) {
		assert.Equal(t, "true", skip.DefValue)
	}
	for _, name := range []string{"user", "output", "quiet", "verbose", "stories", "highlights-only", "force", "list", "no-progress"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "session")
}
