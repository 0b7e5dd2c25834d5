// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "arxiv-contact-email", "  me@example.org  \n")
				writeFile(t, dir, "other-token", "tok_123")
				return dir
			},
			want: Secrets{
				"arxiv-contact-email": "me@example.org",
				"other-token":         "tok_123",
			},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files, dotfiles and directories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "arxiv-contact-email", "me@example.org")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{"arxiv-contact-email": "me@example.org"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn bytes.Buffer
			got, err := Load(tt.setup(t), &warn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, warn.String())
		})
	}
}

func TestLoadUnreadableFileWarns(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}
	dir := t.TempDir()
	writeFile(t, dir, "arxiv-contact-email", "me@example.org")
	writeFile(t, dir, "locked", "secret")
	require.NoError(t, os.Chmod(filepath.Join(dir, "locked"), 0o000))

	var warn bytes.Buffer
	got, err := Load(dir, &warn)
	require.NoError(t, err)
	assert.Equal(t, Secrets{"arxiv-contact-email": "me@example.org"}, got)
	assert.Contains(t, warn.String(), "could not read secret locked")
}

func TestKeys(t *testing.T) {
	s := Secrets{"b": "2", "a": "1"}
	assert.Equal(t, []string{"a", "b"}, s.Keys())
	assert.Empty(t, Secrets{}.Keys())
}

func TestUserAgent(t *testing.T) {
	tests := []struct {
		name    string
		secrets Secrets
		base    string
		want    string
	}{
		{"no email", Secrets{}, "arxiv-extract/0.1", "arxiv-extract/0.1"},
		{"email appended", Secrets{KeyContactEmail: "me@example.org"}, "arxiv-extract/0.1", "arxiv-extract/0.1 (mailto:me@example.org)"},
		{"explicit mailto wins", Secrets{KeyContactEmail: "me@example.org"}, "bot (mailto:ops@example.org)", "bot (mailto:ops@example.org)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.secrets.UserAgent(tt.base))
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
