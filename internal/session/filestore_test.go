package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"123456", "123456.json"},
		{"-100987", "-100987.json"},
		{"Chat_A-1", "Chat_A-1.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.key))
	}
}

func TestFileName_SanitizedKeysStayDistinct(t *testing.T) {
	a := FileName("a/b")
	b := FileName("a:b")
	c := FileName("a_b")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "a_b.json", c)
	assert.Regexp(t, `^a_b~[0-9a-f]{12}\.json$`, a)
	assert.Equal(t, a, FileName("a/b"), "stable")
	assert.NotContains(t, FileName("../../etc/passwd"), "/")
}

func TestFileName_CleanKeyCannotMimicDerivedName(t *testing.T) {
	derived := FileName("a/b")
	mimic := strings.TrimSuffix(derived, ".json")

	assert.NotEqual(t, derived, FileName(mimic))
	assert.NotEqual(t, derived, FileName(strings.Replace(mimic, "~", "-", 1)))
}

func TestFileStore_LoadSaveDelete(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "sessions")
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	data, err := store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, data, "missing session")

	require.NoError(t, store.Save(ctx, "42", []byte(`{"locale":"en"}`)))
	require.NoError(t, store.Save(ctx, "42", []byte(`{"locale":"uk"}`)))

	data, err = store.Load(ctx, "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"locale":"uk"}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "42.json", entries[0].Name())

	require.NoError(t, store.Delete(ctx, "42"))
	require.NoError(t, store.Delete(ctx, "42"), "deleting twice is fine")

	data, err = store.Load(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_ReadsLegacyLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "777.json"), []byte(`{"profile":{"ether":3}}`), 0o644))

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	data, err := store.Load(ctx, "777")
	require.NoError(t, err)

	s, err := Decode(data, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Profile.Currency)
}
