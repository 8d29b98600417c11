package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteItemShortcut(t *testing.T) {
	t.Parallel()

	const id = "0192f1a4-7c3e-7d21-9b55-3c1f0a9e2b10"

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no args", []string{"content"}, []string{"content"}},
		{"uuid first", []string{"content", id}, []string{"content", "items", "show", id}},
		{"seed id first", []string{"content", "seed-onboarding"}, []string{"content", "items", "show", "seed-onboarding"}},
		{"after value flag", []string{"content", "--dir", "./ws", id}, []string{"content", "--dir", "./ws", "items", "show", id}},
		{"after equals flag", []string{"content", "--format=text", id}, []string{"content", "--format=text", "items", "show", id}},
		{"after bool flag", []string{"content", "--pretty", id}, []string{"content", "--pretty", "items", "show", id}},
		{"after double dash", []string{"content", "--log-level", "debug", "--", id}, []string{"content", "--log-level", "debug", "--", "items", "show", id}},
		{"flag value that looks like an id", []string{"content", "--actor", "seed-bot", "tree"}, []string{"content", "--actor", "seed-bot", "tree"}},
		{"subcommand untouched", []string{"content", "items", "show", id}, []string{"content", "items", "show", id}},
		{"bare seed prefix", []string{"content", "seed-"}, []string{"content", "seed-"}},
		{"unknown command", []string{"content", "wat"}, []string{"content", "wat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, rewriteItemShortcut(tt.in))
		})
	}
}
